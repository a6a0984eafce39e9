package middleware

import (
	"net/http"
	"strings"

	"codegaming/services"

	"github.com/gin-gonic/gin"
)

// Context key for the resolved identity. Handlers read it back with
// CurrentUser; there is no process-wide session state.
const contextAuthedUser = "authed_user"

// RenewedTokenHeader carries a fresh token to the client when the session was
// rotated while handling the request.
const RenewedTokenHeader = "X-Renewed-Token"

// Session resolves the bearer token (if any) into an authenticated identity
// and stores it on the request context. Requests without a valid token pass
// through untouched; RequireAuth decides per route whether that is allowed.
func Session(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authed, ok := sessions.Resolve(extractToken(c))
		if ok {
			c.Set(contextAuthedUser, authed)
			if authed.RenewedToken != "" {
				c.Header(RenewedTokenHeader, authed.RenewedToken)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated identity for the request, if any.
func CurrentUser(c *gin.Context) (*services.AuthedUser, bool) {
	value, exists := c.Get(contextAuthedUser)
	if !exists {
		return nil, false
	}
	authed, ok := value.(*services.AuthedUser)
	return authed, ok
}

// RequireAuth aborts with 401 unless the request carries a valid session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "User not authenticated",
				"code":    "unauthorized",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the authenticated user holds an admin
// role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authed, ok := CurrentUser(c)
		if !ok || !authed.User.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Admin access required",
				"code":    "forbidden",
			})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}
