package middleware

import (
	"net/http"

	"codegaming/services"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenHeader carries the anti-forgery token on mutating requests.
	CSRFTokenHeader = "X-CSRF-Token"
	// SessionKeyHeader identifies the anonymous session the token was issued
	// against. Authenticated requests use their auth session instead.
	SessionKeyHeader = "X-Session-Id"
)

// CSRF validates the anti-forgery token against the session it was issued
// for: the auth session for logged-in users, the client-supplied session key
// otherwise.
func CSRF(csrf *services.CSRFService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionKey := CSRFSessionKey(c)
		token := c.GetHeader(CSRFTokenHeader)
		if err := csrf.Validate(c.Request.Context(), sessionKey, token); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Invalid request token",
				"code":    "forbidden",
			})
			return
		}
		c.Next()
	}
}

// CSRFSessionKey picks the session key a token is scoped to.
func CSRFSessionKey(c *gin.Context) string {
	if authed, ok := CurrentUser(c); ok {
		return authed.SessionID
	}
	if key := c.GetHeader(SessionKeyHeader); key != "" {
		return key
	}
	return c.Query("session_id")
}
