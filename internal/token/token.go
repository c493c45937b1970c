package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/streamhub/accounts/internal/config"
)

// Purpose distinguishes what a token may be used for. A refresh-purposed
// token must never verify as an access token and vice versa.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

var (
	// ErrNoSecret reports a missing signing secret, fatal misconfiguration
	ErrNoSecret = errors.New("token: signing secret is not configured")
	// ErrExpired reports a token past its expiry
	ErrExpired = errors.New("token: expired")
	// ErrMalformed reports a token with an invalid signature or structure
	ErrMalformed = errors.New("token: malformed")
	// ErrWrongPurpose reports a token presented for the wrong purpose
	ErrWrongPurpose = errors.New("token: wrong purpose")
)

// Claims are the identity claims embedded in every issued token
type Claims struct {
	UserID  string  `json:"user_id"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed, time-bounded tokens. It is a pure
// function of its secrets and the clock; no state is kept between calls.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewService creates a token service from auth configuration
func NewService(cfg config.AuthConfig) (*Service, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, ErrNoSecret
	}

	return &Service{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		now:           time.Now,
	}, nil
}

// AccessTTL returns the configured access-token lifetime
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL returns the configured refresh-token lifetime
func (s *Service) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// IssueAccess issues a short-lived access token for the user
func (s *Service) IssueAccess(userID string) (string, error) {
	return s.issue(userID, PurposeAccess, s.accessSecret, s.accessTTL)
}

// IssueRefresh issues a long-lived refresh token for the user
func (s *Service) IssueRefresh(userID string) (string, error) {
	return s.issue(userID, PurposeRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *Service) issue(userID string, purpose Purpose, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps every issued token unique. Without it two
			// tokens minted within the same second are byte-identical
			// and a rotation could reinstall the token it consumed.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyAccess verifies an access token and returns its claims
func (s *Service) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verify(tokenString, PurposeAccess, s.accessSecret)
}

// VerifyRefresh verifies a refresh token and returns its claims
func (s *Service) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verify(tokenString, PurposeRefresh, s.refreshSecret)
}

func (s *Service) verify(tokenString string, purpose Purpose, secret []byte) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrMalformed
	}

	// The purpose claim backstops the secret split: even with identical
	// secrets a token never crosses purposes.
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}

	return claims, nil
}
