package waitlist

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

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

func (c *Controller) Join(ctx *gin.Context) {
	var req JoinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	entry, err := c.service.Join(ctx.Request.Context(), req)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Client added to waitlist", entry, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	entry, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Waitlist entry retrieved", entry, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	var params ListQueryParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	entries, err := c.service.List(ctx.Request.Context(), params.SpaceID, Status(params.Status))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Waitlist entries retrieved", gin.H{
		"entries": entries,
		"total":   len(entries),
	}, nil)
}

func (c *Controller) NextCandidate(ctx *gin.Context) {
	spaceID, err := uuid.Parse(ctx.Query("space_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid space_id", nil, nil)
		return
	}
	date, err := time.Parse("2006-01-02", ctx.Query("date"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, nil)
		return
	}

	entry, err := c.service.NextCandidate(ctx.Request.Context(), spaceID, date)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}
	if entry == nil {
		response.RespondJSON(ctx, "success", http.StatusOK, "Waitlist is empty for this window", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Next candidate retrieved", entry, nil)
}

func (c *Controller) UpdatePriority(ctx *gin.Context) {
	var req UpdatePriorityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	entry, err := c.service.UpdatePriority(ctx.Request.Context(), ctx.Param("id"), req.Priority, middleware.ActorFromContext(ctx))
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Priority updated", entry, nil)
}

func (c *Controller) Notify(ctx *gin.Context) {
	var req NotifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	entry, err := c.service.Notify(ctx.Request.Context(), ctx.Param("id"), req.Channel)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Client notified", entry, nil)
}

func (c *Controller) Attend(ctx *gin.Context) {
	var req AttendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	entry, err := c.service.Attend(ctx.Request.Context(), ctx.Param("id"), middleware.ActorFromContext(ctx), req.AlternativeSpaceID)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Waitlist entry attended", entry, nil)
}

func (c *Controller) Cancel(ctx *gin.Context) {
	// The reason is optional, so an empty body is fine.
	var req CancelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	entry, err := c.service.Cancel(ctx.Request.Context(), ctx.Param("id"), req.Reason)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Waitlist entry cancelled", entry, nil)
}
