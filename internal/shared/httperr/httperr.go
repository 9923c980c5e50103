package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reservio/internal/shared/apperrors"
	"reservio/internal/shared/utils/response"
)

// Respond maps a domain error onto the standard API envelope. Conflict
// errors keep their counts so the UI can show them verbatim instead of a
// generic message.
func Respond(ctx *gin.Context, err error) {
	if ce, ok := apperrors.IsConflict(err); ok {
		response.RespondJSON(ctx, "error", http.StatusConflict, "Window unavailable", nil, gin.H{
			"reservation_conflicts": ce.Reservations,
			"blackout_conflicts":    ce.Blackouts,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, apperrors.ErrInvalidState):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.Is(err, apperrors.ErrDuplicate):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, apperrors.ErrAvailabilityCheckFailed):
		response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, err.Error())
	}
}
