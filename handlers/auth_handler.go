package handlers

import (
	"errors"
	"net/http"

	"codegaming/logger"
	"codegaming/middleware"
	"codegaming/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	csrfService *services.CSRFService
	log         *logger.Logger
}

func NewAuthHandler(authService *services.AuthService, csrfService *services.CSRFService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		csrfService: csrfService,
		log:         log.With("handler", "AuthHandler"),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			fail(c, http.StatusConflict, codeConflict, err.Error())
			return
		}
		h.log.Error("registration failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	user, token, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, codeUnauthorized, err.Error())
			return
		}
		h.log.Error("login failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "token": token})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)
	user, err := h.authService.GetProfile(authed.User.ID)
	if err != nil {
		h.log.Error("profile lookup failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// CSRFToken issues an anti-forgery token scoped to the caller's session:
// the auth session for logged-in users, the supplied session key otherwise.
func (h *AuthHandler) CSRFToken(c *gin.Context) {
	sessionKey := middleware.CSRFSessionKey(c)
	if sessionKey == "" {
		fail(c, http.StatusBadRequest, codeValidation, "Missing session identifier")
		return
	}
	token, err := h.csrfService.Issue(c.Request.Context(), sessionKey)
	if err != nil {
		h.log.Error("csrf token issue failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "csrf_token": token})
}
