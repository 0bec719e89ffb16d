package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-dashboard/internal/constants"
	apierrors "github.com/yukikurage/okr-dashboard/internal/errors"
	"github.com/yukikurage/okr-dashboard/internal/logging"
	"github.com/yukikurage/okr-dashboard/internal/services"
)

// validationErrors are reported back to the caller verbatim as 400s.
var validationErrors = []error{
	services.ErrInvalidUsername,
	services.ErrInvalidEmail,
	services.ErrPasswordMismatch,
	services.ErrWrongCurrentPassword,
	services.ErrTitleRequired,
	services.ErrTitleEmpty,
	services.ErrInvalidStatus,
	services.ErrInvalidProgress,
	services.ErrInvalidHours,
	services.ErrInvalidDate,
	services.ErrInvalidPeriod,
	services.ErrGoalNameRequired,
	services.ErrInvalidQuantity,
	services.ErrPositionNameRequired,
	services.ErrSuggestTextRequired,
}

var notFoundErrors = []error{
	services.ErrUserNotFound,
	services.ErrTaskNotFound,
	services.ErrGoalNotFound,
	services.ErrPositionNotFound,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondServiceError maps service errors onto API error responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserBlocked):
		apierrors.Blocked(c, "")
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case isAny(err, validationErrors):
		apierrors.BadRequest(c, err.Error())
	case isAny(err, notFoundErrors):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrPositionNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAdminFieldForbidden),
		errors.Is(err, services.ErrCannotDeleteSelf):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskAlreadyStarted),
		errors.Is(err, services.ErrTaskAlreadyDone):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidOperation, err.Error()))
	default:
		logging.FromContext(c).Error("request failed", "error", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
