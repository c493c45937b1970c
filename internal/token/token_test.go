package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/streamhub/accounts/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    240 * time.Hour,
	}
}

func TestNewServiceMissingSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTokenSecret = ""

	_, err := NewService(cfg)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc, err := NewService(testAuthConfig())
	assert.NoError(t, err)

	tok, err := svc.IssueAccess("user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, tok)

	claims, err := svc.VerifyAccess(tok)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, PurposeAccess, claims.Purpose)
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	svc, err := NewService(testAuthConfig())
	assert.NoError(t, err)

	tok, err := svc.IssueRefresh("user-1")
	assert.NoError(t, err)

	claims, err := svc.VerifyRefresh(tok)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, PurposeRefresh, claims.Purpose)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	svc, err := NewService(testAuthConfig())
	assert.NoError(t, err)

	// Freeze the clock so iat/nbf/exp are identical across issues; only
	// the jti may distinguish the tokens.
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	first, err := svc.IssueRefresh("user-1")
	assert.NoError(t, err)

	second, err := svc.IssueRefresh("user-1")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)

	claims, err := svc.VerifyRefresh(first)
	assert.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestCrossPurposeVerificationRejected(t *testing.T) {
	svc, err := NewService(testAuthConfig())
	assert.NoError(t, err)

	access, err := svc.IssueAccess("user-1")
	assert.NoError(t, err)

	refresh, err := svc.IssueRefresh("user-1")
	assert.NoError(t, err)

	_, err = svc.VerifyRefresh(access)
	assert.Error(t, err)

	_, err = svc.VerifyAccess(refresh)
	assert.Error(t, err)
}

func TestCrossPurposeRejectedWithSharedSecret(t *testing.T) {
	// Same secret for both purposes: signature verifies, the purpose claim
	// still blocks the crossover.
	cfg := testAuthConfig()
	cfg.RefreshTokenSecret = cfg.AccessTokenSecret

	svc, err := NewService(cfg)
	assert.NoError(t, err)

	access, err := svc.IssueAccess("user-1")
	assert.NoError(t, err)

	_, err = svc.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestVerifyExpired(t *testing.T) {
	svc, err := NewService(testAuthConfig())
	assert.NoError(t, err)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	tok, err := svc.IssueAccess("user-1")
	assert.NoError(t, err)

	// Advance the clock past the access TTL
	svc.now = func() time.Time { return issued.Add(16 * time.Minute) }

	_, err = svc.VerifyAccess(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyMalformed(t *testing.T) {
	svc, err := NewService(testAuthConfig())
	assert.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Empty token", token: ""},
		{name: "Garbage token", token: "not-a-token"},
		{name: "Truncated token", token: "eyJhbGciOiJIUzI1NiJ9.e30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccess(tt.token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc, err := NewService(testAuthConfig())
	assert.NoError(t, err)

	other, err := NewService(config.AuthConfig{
		AccessTokenSecret:  "a-different-access-secret",
		RefreshTokenSecret: "a-different-refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    240 * time.Hour,
	})
	assert.NoError(t, err)

	tok, err := other.IssueAccess("user-1")
	assert.NoError(t, err)

	_, err = svc.VerifyAccess(tok)
	assert.ErrorIs(t, err, ErrMalformed)
}
