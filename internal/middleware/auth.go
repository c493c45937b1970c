package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/streamhub/accounts/internal/apierr"
	"github.com/streamhub/accounts/internal/token"
	"github.com/streamhub/accounts/pkg/models"
)

const (
	// AuthContextKey is the gin context key holding the authenticated
	// identity
	AuthContextKey = "current_user"

	accessTokenCookie = "accessToken"
)

// IdentityResolver resolves a token subject to its public identity
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*models.PublicUser, error)
}

// Auth validates the inbound access token and attaches the authenticated
// identity to the request context. It is a pure gate: every failure maps to
// 401 and it has no side effects.
func Auth(tokens *token.Service, users IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			abortUnauthorized(c, "authentication required")
			return
		}

		claims, err := tokens.VerifyAccess(tokenString)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		user, err := users.ResolveIdentity(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(AuthContextKey, user)
		c.Next()
	}
}

// extractAccessToken reads the access token from the Authorization header
// or, failing that, the accessToken cookie. Tokens behave identically
// regardless of transport.
func extractAccessToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, apierr.Unauthorized(msg))
	c.Abort()
}

// CurrentUser retrieves the authenticated identity from the context
func CurrentUser(c *gin.Context) (*models.PublicUser, bool) {
	value, exists := c.Get(AuthContextKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.PublicUser)
	return user, ok
}
