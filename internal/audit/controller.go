package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reservio/internal/shared/httperr"
	"reservio/internal/shared/utils/response"
)

type Controller struct {
	repo Repository
}

func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

func (c *Controller) ListRecent(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	records, err := c.repo.ListRecent(ctx.Request.Context(), limit)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Conversion records retrieved", gin.H{
		"records": records,
		"total":   len(records),
	}, nil)
}

func (c *Controller) ListByOrigin(ctx *gin.Context) {
	originID, err := uuid.Parse(ctx.Param("originId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid origin id", nil, nil)
		return
	}

	records, err := c.repo.ListByOrigin(ctx.Request.Context(), ctx.Param("originType"), originID)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Conversion records retrieved", gin.H{
		"records": records,
		"total":   len(records),
	}, nil)
}
