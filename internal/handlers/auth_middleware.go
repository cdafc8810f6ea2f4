package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/archivus/archive-service/internal/authz"
	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/services"
	"github.com/archivus/archive-service/internal/utils"
)

// AuthMiddleware resolves bearer tokens to users and gates routes on the
// authorizer compositions from the authz package.
type AuthMiddleware struct {
	tokens services.TokenService
	logger utils.Logger
}

func NewAuthMiddleware(tokens services.TokenService, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Authenticate validates the Authorization header and stores the resolved
// user on the context. Requests without a valid bearer token are rejected.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			return
		}

		user, err := m.tokens.Verify(c.Request.Context(), token)
		if err != nil {
			utils.FromContext(c, m.logger).Warn("token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication failed"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// Require rejects authenticated users the authorizer does not permit.
// It must run after Authenticate.
func (m *AuthMiddleware) Require(authorizer authz.Authorizer, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(currentUserKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			return
		}
		user, ok := v.(*models.User)
		if !ok || !authorizer.Permits(user, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "Access denied"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
