package handlers

import (
	"errors"
	"net/http"

	"codegaming/logger"
	"codegaming/middleware"
	"codegaming/services"

	"github.com/gin-gonic/gin"
)

// resolveActor returns who is performing a write: the authenticated user when
// a session is present, otherwise the guest named by the request body. When
// neither resolves, the error response has already been written.
func resolveActor(c *gin.Context, guests *services.GuestService, log *logger.Logger, guestSessionID, nickname string) (services.Identity, bool) {
	if authed, ok := middleware.CurrentUser(c); ok {
		return authed, true
	}
	if guestSessionID == "" || nickname == "" {
		fail(c, http.StatusUnauthorized, codeUnauthorized, "User not authenticated")
		return nil, false
	}
	session, err := guests.Lookup(guestSessionID, nickname)
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			fail(c, http.StatusNotFound, codeNotFound, "Guest session not found")
		} else {
			log.Error("guest lookup failed", "error", err)
			fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		}
		return nil, false
	}
	return &services.GuestUser{Session: *session}, true
}
