package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JuggernautLabs/ContractStream/internal/dtos"
	"github.com/JuggernautLabs/ContractStream/internal/services"
	"github.com/JuggernautLabs/ContractStream/internal/session"
)

type AuthHandler struct {
	Users    *services.UserService
	Sessions *session.Store
}

func NewAuthHandler(users *services.UserService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions}
}

// Signup is POST /signup. A fresh account is logged in immediately; the
// user just proved the password by choosing it.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	identity, err := h.Users.SignUp(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signup failed"})
		return
	}

	rec := h.Sessions.Login(identity)
	h.writeSession(c, rec)
	c.JSON(http.StatusCreated, sessionResponse(rec))
}

// Login is POST /login. Logging in twice reuses the live session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	identity, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	rec := h.Sessions.Login(identity)
	h.writeSession(c, rec)
	c.JSON(http.StatusOK, sessionResponse(rec))
}

// CheckLogin is GET /check_login.
func (h *AuthHandler) CheckLogin(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": identity.Username(), "user_id": identity.UserID()})
}

// Logout is POST /logout. It evicts the session from the store and clears
// the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	tok, ok := sessionToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.Sessions.Logout(tok); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *AuthHandler) writeSession(c *gin.Context, rec *session.Record) {
	maxAge := int(time.Until(rec.ExpiresAt).Seconds())
	c.SetCookie(SessionCookie, rec.Token, maxAge, "/", "", false, true)
	c.Header(SessionHeader, rec.Token)
}

func sessionResponse(rec *session.Record) dtos.SessionResponse {
	return dtos.SessionResponse{
		Token:     rec.Token,
		Username:  rec.Identity.Username(),
		UserID:    rec.Identity.UserID(),
		ExpiresAt: rec.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
