package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/gin-gonic/gin"
)

func successBody(data any) gin.H {
	return gin.H{"status": "success", "data": data}
}

func errorBody(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

// httpError is an error with a fixed status and client-facing message.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string { return e.message }

// validationError is a rejected request payload: a summary message plus a
// per-field breakdown keyed by JSON field name.
type validationError struct {
	message string
	fields  map[string]string
}

func (e *validationError) Error() string { return e.message }
func (e *validationError) Unwrap() error { return common.ErrorValidation }

var errBadJSON = &httpError{status: http.StatusBadRequest, message: "Invalid JSON body"}

// statusFor maps err onto a status code and a message that is safe to show
// to the client. internal is true when the error must be logged.
func statusFor(err error) (status int, message string, internal bool) {
	var he *httpError
	var ve *validationError

	switch {
	case errors.As(err, &he):
		return he.status, he.message, false
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.message, false
	case errors.Is(err, common.ErrorValidation):
		_, msg, _ := strings.Cut(err.Error(), common.ErrorValidation.Error()+": ")
		if msg == "" {
			msg = "Validation failed"
		}
		return http.StatusBadRequest, msg, false
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already registered", false

	case errors.Is(err, common.ErrMissingAuthHeader):
		return http.StatusUnauthorized, "Authorization header missing", false
	case errors.Is(err, common.ErrEmptyToken):
		return http.StatusUnauthorized, "Token missing", false
	case errors.Is(err, common.ErrMalformedAuthHeader):
		return http.StatusUnauthorized, "Invalid authorization format", false
	case errors.Is(err, common.ErrInvalidOrExpiredToken):
		return http.StatusUnauthorized, "Invalid or expired token", false
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token", false
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials", false

	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Forbidden", false

	case errors.Is(err, common.ErrEventNotFound):
		return http.StatusNotFound, "Event not found", false
	case errors.Is(err, common.ErrRegistrationNotFound):
		return http.StatusNotFound, "Registration not found", false
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "User not found", false
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not Found", false
	}

	return http.StatusInternalServerError, "Internal Server Error", true
}
