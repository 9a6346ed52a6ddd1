package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuggernautLabs/ContractStream/internal/services"
	"github.com/JuggernautLabs/ContractStream/internal/session"
)

const (
	// SessionCookie matches the original frontend contract; the header is
	// the newer transport for non-browser clients. Either works.
	SessionCookie = "session_id"
	SessionHeader = "X-Session-Token"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// sessionToken pulls the opaque token off the request, cookie first.
func sessionToken(c *gin.Context) (string, bool) {
	if tok, err := c.Cookie(SessionCookie); err == nil && tok != "" {
		return tok, true
	}
	if tok := c.GetHeader(SessionHeader); tok != "" {
		return tok, true
	}
	return "", false
}

// currentIdentity authenticates the request against the session store.
// On failure it writes the 401 and aborts; callers just return. Only the
// services package can mint a VerifiedIdentity, so the assertion is a
// formality: nothing else can end up in the store.
func currentIdentity(c *gin.Context, store *session.Store) (services.VerifiedIdentity, bool) {
	tok, ok := sessionToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return services.VerifiedIdentity{}, false
	}
	identity, err := store.Verify(tok)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return services.VerifiedIdentity{}, false
	}
	verified, ok := identity.(services.VerifiedIdentity)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return services.VerifiedIdentity{}, false
	}
	return verified, true
}

// respondError maps the service error taxonomy onto status codes: invalid
// sessions are 401, missing rows 404, everything else is a server error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
