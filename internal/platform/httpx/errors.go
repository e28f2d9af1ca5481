package httpx

import (
	"errors"
	"net/http"

	"github.com/cotowork/userservice/internal/shared"
)

// RespondError maps domain errors to HTTP problem responses. Messages stay
// generic on purpose: authentication failures never reveal whether the
// username or the password was wrong, and token errors never echo the
// token back.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid username or password", shared.CodeInvalidCredentials)
	case errors.Is(err, shared.ErrUserNotFoundOrInactive):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "user not found or inactive", shared.CodeUserInactive)
	case errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "", shared.CodeAuthenticationFailed)
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", "", shared.CodeAccessDenied)
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error(), shared.CodeResourceNotFound)
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error(), shared.CodeDuplicateData)
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error(), shared.CodeValidationFailed)
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "", shared.CodeInternalError)
	}
}
