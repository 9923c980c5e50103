package spaces

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

func (c *Controller) CreateSpace(ctx *gin.Context) {
	var req CreateSpaceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	space, err := c.service.CreateSpace(ctx.Request.Context(), req)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Space created", space, nil)
}

func (c *Controller) GetSpace(ctx *gin.Context) {
	space, err := c.service.GetSpace(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Space retrieved", space, nil)
}

func (c *Controller) ListSpaces(ctx *gin.Context) {
	activeOnly := ctx.Query("active") == "true"
	list, err := c.service.ListSpaces(ctx.Request.Context(), activeOnly)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Spaces retrieved", list, nil)
}

func (c *Controller) UpdateSpace(ctx *gin.Context) {
	var req UpdateSpaceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	space, err := c.service.UpdateSpace(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Space updated", space, nil)
}

func (c *Controller) DeleteSpace(ctx *gin.Context) {
	if err := c.service.DeleteSpace(ctx.Request.Context(), ctx.Param("id")); err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Space deleted", nil, nil)
}

func (c *Controller) CreateBlackout(ctx *gin.Context) {
	var req CreateBlackoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	blackout, err := c.service.CreateBlackout(ctx.Request.Context(), req)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Blackout period created", blackout, nil)
}

func (c *Controller) ListBlackouts(ctx *gin.Context) {
	list, err := c.service.ListBlackouts(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Blackout periods retrieved", list, nil)
}

func (c *Controller) DeleteBlackout(ctx *gin.Context) {
	if err := c.service.DeleteBlackout(ctx.Request.Context(), ctx.Param("blackoutId")); err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Blackout period deleted", nil, nil)
}
