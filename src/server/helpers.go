package server

import (
	"net/http"
	"strconv"

	"windfarm-observer/src/helpers"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// queryInt reads an optional integer query parameter
func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, helpers.NewValidation("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

// -----------------------------------------------------------------------------

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case helpers.IsInvalidRange(err):
		return http.StatusBadRequest
	case helpers.IsValidation(err):
		return http.StatusUnprocessableEntity
	case helpers.IsDataUnavailable(err):
		return http.StatusServiceUnavailable
	case helpers.IsAuthentication(err):
		return http.StatusUnauthorized
	case helpers.IsAuthorization(err):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) writeError(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.Logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.Logger.Debug("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(code, gin.H{"detail": err.Error()})
}
