package availability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reservio/internal/shared/httperr"
	"reservio/internal/shared/middleware"
	"reservio/internal/shared/utils/response"
)

type Controller struct {
	checker Checker
}

func NewController(checker Checker) *Controller {
	return &Controller{checker: checker}
}

// CheckAvailability handles GET /availability/check.
func (c *Controller) CheckAvailability(ctx *gin.Context) {
	spaceID, err := uuid.Parse(ctx.Query("space_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid space_id", nil, nil)
		return
	}

	dateStart, err := time.Parse("2006-01-02", ctx.Query("date_start"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid date_start, expected YYYY-MM-DD", nil, nil)
		return
	}
	dateEnd, err := time.Parse("2006-01-02", ctx.Query("date_end"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid date_end, expected YYYY-MM-DD", nil, nil)
		return
	}

	var excludeID *uuid.UUID
	if raw := ctx.Query("exclude_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid exclude_id", nil, nil)
			return
		}
		excludeID = &parsed
	}

	result, err := c.checker.Check(ctx.Request.Context(), spaceID, dateStart, dateEnd, excludeID)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability checked", result, nil)
}

func SetupAvailabilityRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/availability")
	group.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		group.GET("/check", controller.CheckAvailability)
	}
}
