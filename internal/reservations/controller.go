package reservations

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reservio/internal/shared/httperr"
	"reservio/internal/shared/middleware"
	"reservio/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateTemporary(ctx *gin.Context) {
	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	reservation, err := c.service.CreateTemporary(ctx.Request.Context(), req, middleware.ActorFromContext(ctx))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Temporary reservation created", reservation, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	reservation, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved", reservation, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	var params ReservationListQueryParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	rows, total, err := c.service.List(ctx.Request.Context(), ListQuery{
		SpaceID:  params.SpaceID,
		ClientID: params.ClientID,
		Status:   params.Status,
		Kind:     params.Kind,
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved", gin.H{
		"reservations": rows,
		"total":        total,
	}, nil)
}

func (c *Controller) Release(ctx *gin.Context) {
	if err := c.service.Release(ctx.Request.Context(), ctx.Param("id")); err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation released", nil, nil)
}

func (c *Controller) Convert(ctx *gin.Context) {
	confirmed, err := c.service.Convert(ctx.Request.Context(), ctx.Param("id"), middleware.ActorFromContext(ctx))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation converted", confirmed, nil)
}
