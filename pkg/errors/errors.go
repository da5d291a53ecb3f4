package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNavigation       ErrorType = "navigation"
	ErrorTypeAccessRestricted ErrorType = "access_restricted"
	ErrorTypeParsing          ErrorType = "parsing"
	ErrorTypeTransport        ErrorType = "transport"
	ErrorTypeRateLimit        ErrorType = "rate_limit"
	ErrorTypeClientRejected   ErrorType = "client_rejected"
	ErrorTypeServerError      ErrorType = "server_error"
	ErrorTypeConfig           ErrorType = "config"
	ErrorTypeUnknown          ErrorType = "unknown"
)

// Error represents a pipeline error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error without an HTTP code
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeTransport, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	case ErrorTypeNavigation, ErrorTypeAccessRestricted, ErrorTypeParsing,
		ErrorTypeClientRejected, ErrorTypeConfig:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 400, 401, 403, 404, 422: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}

// FromStatusCode maps an HTTP status code to a typed error
func FromStatusCode(statusCode int, message string) *Error {
	var errorType ErrorType
	switch {
	case statusCode == 429:
		errorType = ErrorTypeRateLimit
	case statusCode >= 500:
		errorType = ErrorTypeServerError
	case statusCode >= 400:
		errorType = ErrorTypeClientRejected
	default:
		errorType = ErrorTypeUnknown
	}
	return &Error{Type: errorType, Message: message, Code: statusCode}
}
