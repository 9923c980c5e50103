package clients

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

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateClientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	client, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Client created", client, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	client, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Client retrieved", client, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	var params ClientListQueryParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	rows, total, err := c.service.List(ctx.Request.Context(), params.Search, params.Page, params.Limit)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Clients retrieved", gin.H{
		"clients": rows,
		"total":   total,
	}, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateClientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	client, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Client updated", client, nil)
}

func (c *Controller) Deactivate(ctx *gin.Context) {
	if err := c.service.Deactivate(ctx.Request.Context(), ctx.Param("id")); err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Client deactivated", nil, nil)
}
