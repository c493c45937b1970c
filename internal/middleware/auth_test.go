package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhub/accounts/internal/apierr"
	"github.com/streamhub/accounts/internal/config"
	"github.com/streamhub/accounts/internal/token"
	"github.com/streamhub/accounts/pkg/models"
)

type fakeResolver struct {
	users map[string]*models.PublicUser
}

func (f *fakeResolver) ResolveIdentity(ctx context.Context, userID string) (*models.PublicUser, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, apierr.NotFound("user does not exist")
}

func newTestGate(t *testing.T) (*token.Service, gin.HandlerFunc) {
	t.Helper()

	tokens, err := token.NewService(config.AuthConfig{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    240 * time.Hour,
	})
	require.NoError(t, err)

	resolver := &fakeResolver{users: map[string]*models.PublicUser{
		"u-ada": {ID: "u-ada", Username: "ada", Email: "ada@x.com", FullName: "Ada Lovelace"},
	}}

	return tokens, Auth(tokens, resolver)
}

func TestAuthRejectsMissingOrBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, gate := newTestGate(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "Missing authorization header", header: ""},
		{name: "Invalid format", header: "InvalidToken"},
		{name: "Garbage bearer token", header: "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			c.Request = req

			gate(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestAuthRejectsRefreshToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, gate := newTestGate(t)

	refresh, err := tokens.IssueRefresh("u-ada")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	c.Request = req

	gate(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsUnknownSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, gate := newTestGate(t)

	access, err := tokens.IssueAccess("u-deleted")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	c.Request = req

	gate(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAttachesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, gate := newTestGate(t)

	access, err := tokens.IssueAccess("u-ada")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	c.Request = req

	gate(c)
	require.False(t, c.IsAborted())

	user, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, "ada", user.Username)
}

func TestAuthAcceptsCookieTransport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, gate := newTestGate(t)

	access, err := tokens.IssueAccess("u-ada")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: access})
	c.Request = req

	gate(c)
	require.False(t, c.IsAborted())

	user, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, "u-ada", user.ID)
}
