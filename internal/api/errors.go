package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/calshare/internal/api/shared"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/service/auth"
	"github.com/phrazzld/calshare/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error kind.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrNoSession),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrOverlap),
		errors.Is(err, domain.ErrDuplicateUser):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Validation and
// overlap details come from client input and are echoed back; anything
// unexpected gets a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError
	var overlap *domain.OverlapError

	switch {
	case errors.As(err, &verr):
		if verr.Field == "" {
			return "Invalid request: " + verr.Message
		}
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request"

	case errors.As(err, &overlap):
		return fmt.Sprintf("Event overlaps with %q (%s - %s)",
			overlap.Conflict.Title,
			overlap.Conflict.Start.Format(domain.TimeLayout),
			overlap.Conflict.End.Format(domain.TimeLayout))

	case errors.Is(err, domain.ErrNoSession):
		return "Not logged in"

	case errors.Is(err, domain.ErrAccessDenied):
		return "Access denied"

	case errors.Is(err, domain.ErrEventNotFound):
		return "Event not found"

	case errors.Is(err, domain.ErrCalendarNotFound):
		return "Calendar not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, domain.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrDuplicateUser):
		return "Username already exists"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status code and safe message for err and logs
// the redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
