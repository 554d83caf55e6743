package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/server/auth"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *HTTPServer) recoverPanic(c *gin.Context, recovered any) {
	s.logger.Error(c.Request.Context(), "panic while serving request", "panic", recovered, "path", c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody("Internal Server Error"))
}

// errorHandler renders the last error a handler attached with c.Error.
// Unexpected errors are logged and answered without detail.
func (s *HTTPServer) errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message, internal := statusFor(err)
		if internal {
			s.logger.Error(c.Request.Context(), "request failed", "error", err, "path", c.Request.URL.Path)
		}

		body := errorBody(message)
		var ve *validationError
		if errors.As(err, &ve) && len(ve.fields) > 0 {
			body["errors"] = ve.fields
		}

		c.JSON(status, body)
	}
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// authRequired resolves the bearer token to a live account and attaches its
// identity to the request context.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			fail(c, err)
			return
		}

		user, err := s.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			fail(c, err)
			return
		}

		id := auth.IdentityFromUser(user)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

var errNoIdentity = &httpError{status: http.StatusUnauthorized, message: "Unauthorized"}

func identity(c *gin.Context) (auth.Identity, bool) {
	return auth.IdentityFromContext(c.Request.Context())
}

// requireAdmin rejects non-admin callers before the request body is read.
func (s *HTTPServer) requireAdmin(verb string) gin.HandlerFunc {
	forbidden := &httpError{status: http.StatusForbidden, message: "Only admins can " + verb + " events"}

	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			fail(c, errNoIdentity)
			return
		}
		if !id.IsAdmin() {
			fail(c, forbidden)
			return
		}
		c.Next()
	}
}
