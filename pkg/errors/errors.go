package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType classifies a failure surfaced by the transport or a scraper call
type ErrorType string

const (
	ErrorTypeTransport      ErrorType = "transport"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeRateLimit      ErrorType = "rate_limit"
	ErrorTypeMalformed      ErrorType = "malformed"
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
)

// Sentinels usable with errors.Is. Matching is by Type only.
var (
	ErrTransport      = &Error{Type: ErrorTypeTransport}
	ErrNotFound       = &Error{Type: ErrorTypeNotFound}
	ErrRateLimited    = &Error{Type: ErrorTypeRateLimit}
	ErrMalformed      = &Error{Type: ErrorTypeMalformed}
	ErrInvalidRequest = &Error{Type: ErrorTypeInvalidRequest}
)

// Error represents a failed upstream interaction with type information
type Error struct {
	Type    ErrorType
	Op      string // e.g. "user.posts"
	Source  string // username, community name, post id or query
	Message string
	Code    int // HTTP status, 0 for network failures
	Err     error

	// RetryAfter is the server-suggested wait carried by a 429 response
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	prefix := string(e.Type)
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Source != "" {
		prefix += " [" + e.Source + "]"
	}

	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", prefix, e.Code, msg)
	}
	return fmt.Sprintf("%s error: %s", prefix, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// ServerSide reports whether the failure was a 5xx response.
func (e *Error) ServerSide() bool {
	return e.Type == ErrorTypeTransport && e.Code >= http.StatusInternalServerError
}

// New creates an error of the given type
func New(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given type around a cause
func Wrap(t ErrorType, err error, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithOp attaches the operation and source to err when it is an *Error.
// Other errors are returned unchanged.
func WithOp(err error, op, source string) error {
	var e *Error
	if !stderrors.As(err, &e) {
		return err
	}
	cp := *e
	if cp.Op == "" {
		cp.Op = op
	}
	if cp.Source == "" {
		cp.Source = source
	}
	return &cp
}

// FromStatus maps a non-2xx HTTP status to the matching error type
func FromStatus(status int, message string) *Error {
	switch {
	case status == http.StatusNotFound:
		return &Error{Type: ErrorTypeNotFound, Message: message, Code: status}
	case status == http.StatusTooManyRequests:
		return &Error{Type: ErrorTypeRateLimit, Message: message, Code: status}
	default:
		return &Error{Type: ErrorTypeTransport, Message: message, Code: status}
	}
}

// TypeOf returns the ErrorType of err, or "" when err is not an *Error
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

func IsNotFound(err error) bool    { return stderrors.Is(err, ErrNotFound) }
func IsRateLimited(err error) bool { return stderrors.Is(err, ErrRateLimited) }
func IsMalformed(err error) bool   { return stderrors.Is(err, ErrMalformed) }
func IsTransport(err error) bool   { return stderrors.Is(err, ErrTransport) }

// IsRetryable checks if an error should be retried. Only rate limiting and
// network or 5xx transport failures qualify.
func IsRetryable(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	switch e.Type {
	case ErrorTypeRateLimit:
		return true
	case ErrorTypeTransport:
		return e.Code == 0 || e.Code >= http.StatusInternalServerError
	default:
		return false
	}
}

// RetryAfterOf returns the server-suggested wait carried by err, if any
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if stderrors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
