package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness violation (username, email, unit code).
	ErrDuplicate = errors.New("duplicate resource")
	// ErrInvalidCredentials indicates login failure. The message is shared
	// between bad-username, bad-password and inactive-account cases so
	// responses cannot reveal which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFoundOrInactive indicates the account behind a token no
	// longer exists or was deactivated.
	ErrUserNotFoundOrInactive = errors.New("user not found or inactive")
	// ErrForbidden indicates the caller is authenticated but lacks the
	// required permission or scope.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates a missing or unusable credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation indicates request payload validation failure.
	ErrValidation = errors.New("validation failed")
)

// Diagnostic codes surfaced in error responses. Stable identifiers safe to
// show to clients; the detailed cause stays in the logs.
const (
	CodeAuthenticationFailed = "AUTH_001"
	CodeInvalidCredentials   = "AUTH_002"
	CodeTokenExpired         = "AUTH_003"
	CodeTokenInvalid         = "AUTH_004"
	CodeUserInactive         = "AUTH_005"

	CodeAccessDenied            = "AUTHZ_001"
	CodeInsufficientPermissions = "AUTHZ_002"

	CodeValidationFailed = "VAL_001"

	CodeResourceNotFound = "RES_001"

	CodeDuplicateData = "DATA_001"

	CodeInternalError = "SRV_001"
)
