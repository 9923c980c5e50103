package promotion

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reservio/internal/shared/httperr"
	"reservio/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Sweep endpoints exist for cron-style external triggers; the same sweeps
// also run on internal timers.
func (c *Controller) RunExpirySweep(ctx *gin.Context) {
	result, err := c.service.RunExpirySweep(ctx.Request.Context())
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Expiry sweep completed", result, nil)
}

func (c *Controller) RunPromotionSweep(ctx *gin.Context) {
	result, err := c.service.RunPromotionSweep(ctx.Request.Context())
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Promotion sweep completed", result, nil)
}
