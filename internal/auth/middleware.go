package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/filmlog/internal/config"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyAuthType = "auth_type"
)

// AuthType indicates how the user was identified
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeHeader AuthType = "header"
)

const (
	defaultUserHeader = "X-User-ID"
	maxUserIDLength   = 255
)

// Middleware identifies the user behind each HTTP request.
type Middleware struct {
	config      config.Auth
	publicPaths map[string]bool
}

// NewMiddleware creates a new identity middleware.
func NewMiddleware(cfg config.Auth) *Middleware {
	if cfg.UserHeader == "" {
		cfg.UserHeader = defaultUserHeader
	}
	if cfg.DefaultUser == "" {
		cfg.DefaultUser = config.DefaultUserID
	}

	return &Middleware{
		config: cfg,
		publicPaths: map[string]bool{
			"/health": true,
		},
	}
}

// Handler returns a Gin middleware handler that identifies requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode == config.AuthModeHeader {
		return m.headerHandler()
	}
	return m.noAuthHandler()
}

// noAuthHandler injects the default user for all requests.
func (m *Middleware) noAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, m.config.DefaultUser)
		c.Set(ContextKeyAuthType, AuthTypeNone)
		c.Next()
	}
}

// headerHandler trusts the user id forwarded by the identity provider.
func (m *Middleware) headerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		userID := strings.TrimSpace(c.GetHeader(m.config.UserHeader))
		if userID == "" || len(userID) > maxUserIDLength {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyAuthType, AuthTypeHeader)
		c.Next()
	}
}

// GetUserID retrieves the identified user's id from the context.
// Returns "" on public paths in header mode.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}

// GetAuthType retrieves how the user was identified.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}
