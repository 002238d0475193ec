package utils

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN" // Authenticated but not the owner
	ErrInvalidToken = "INVALID_TOKEN"

	// User-specific errors
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrUserAlreadyExists  = "USER_ALREADY_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Feed/marketplace errors
	ErrPostNotFound    = "POST_NOT_FOUND"
	ErrProductNotFound = "PRODUCT_NOT_FOUND"

	// Infrastructure errors
	ErrDatabase     = "DATABASE_ERROR"
	ErrUpstream     = "UPSTREAM_ERROR" // External AI call failed or returned garbage
	ErrActorTimeout = "ACTOR_TIMEOUT"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewUserNotFoundError(phone string) *AppError {
	return &AppError{
		Code:    ErrUserNotFound,
		Message: "User not found: " + phone,
	}
}

func NewUnauthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "Unauthorized: " + reason,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrUserNotFound, ErrPostNotFound, ErrProductNotFound:
		return 404
	case ErrInvalidInput:
		return 400
	case ErrUnauthorized, ErrInvalidToken, ErrInvalidCredentials:
		return 401
	case ErrForbidden:
		return 403
	case ErrDuplicate, ErrUserAlreadyExists:
		return 400
	case ErrDatabase, ErrUpstream, ErrActorTimeout:
		return 500
	default:
		return 500
	}
}
