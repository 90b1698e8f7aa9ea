package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	Code    int               `json:"-"`
	Message string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code and message, so sentinels work
// with errors.Is even after being wrapped or copied.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithDetails returns a copy of e carrying field-level details.
func (e *Error) WithDetails(details map[string]string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func BadRequest(message string) *Error { return New(http.StatusBadRequest, message, nil) }
func NotFound(message string) *Error { return New(http.StatusNotFound, message, nil) }
func Conflict(message string) *Error { return New(http.StatusConflict, message, nil) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message, nil) }
func Forbidden(message string) *Error { return New(http.StatusForbidden, message, nil) }

// Internal wraps an infrastructure failure; the cause is logged, never shown.
func Internal(cause error) *Error {
	return ErrInternalServer.Wrap(cause)
}

var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden          = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
	ErrRequestTimeout     = New(http.StatusGatewayTimeout, "Request timed out", nil)
)

var (
	ErrValidation   = New(http.StatusBadRequest, "Validation error", nil)
	ErrInvalidInput = New(http.StatusBadRequest, "Invalid input", nil)
)

var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid email or password", nil)
	ErrTokenExpired       = New(http.StatusUnauthorized, "Token expired", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

var (
	ErrOutOfStock    = New(http.StatusConflict, "Product is out of stock", nil)
	ErrInvalidPromo  = New(http.StatusBadRequest, "Invalid promo code", nil)
	ErrEmptyCart     = New(http.StatusBadRequest, "Your cart is empty.", nil)
	ErrPaymentFailed = New(http.StatusPaymentRequired, "Payment failed", nil)
)

// StatusError is implemented by service-local error types that already know
// their HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
}

// As extracts an *Error from err. A StatusError keeps its status and message.
// Context cancellation and deadline errors map to ErrRequestTimeout; anything
// else becomes ErrInternalServer.
func As(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var statusErr StatusError
	if stderrors.As(err, &statusErr) {
		return New(statusErr.HTTPStatus(), statusErr.Error(), nil)
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return ErrRequestTimeout.Wrap(err)
	}
	return Internal(err)
}

// Respond writes err as {"error": message}. Server errors are logged with
// their cause.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	appErr := As(err)
	if appErr.Code >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", appErr.Code),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(appErr.Code, appErr)
}

// ErrorMiddleware renders the last error attached with c.Error if the handler
// did not write a response itself.
func ErrorMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Respond(c, log, c.Errors.Last().Err)
	}
}
