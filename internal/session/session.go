package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/streamhub/accounts/internal/apierr"
	"github.com/streamhub/accounts/internal/logging"
	"github.com/streamhub/accounts/internal/metrics"
	"github.com/streamhub/accounts/internal/token"
	"github.com/streamhub/accounts/pkg/models"
)

// UserStore is the credential-store surface the session manager needs
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	SetRefreshToken(ctx context.Context, userID, token string) error
	RotateRefreshToken(ctx context.Context, userID, previous, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// EventPublisher publishes account lifecycle events, best effort
type EventPublisher interface {
	Publish(ctx context.Context, event models.AccountEvent) error
}

// Manager orchestrates login, logout, refresh and password changes. All
// session state lives in the credential store; the manager itself keeps
// none, so concurrent requests need no in-process coordination.
type Manager struct {
	users  UserStore
	tokens *token.Service
	events EventPublisher
	log    *logging.Logger
}

// NewManager creates a session manager. events may be nil.
func NewManager(users UserStore, tokens *token.Service, events EventPublisher, log *logging.Logger) *Manager {
	return &Manager{
		users:  users,
		tokens: tokens,
		events: events,
		log:    log,
	}
}

// RegisterInput carries the fields required to create an account
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     string
	CoverImage string
}

// Register creates a new account. Username and email are case-folded and
// trimmed before the uniqueness check.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)

	if username == "" || email == "" || fullName == "" || in.Password == "" {
		return nil, apierr.Validation("username, email, full name and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Internal("failed to process password")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       in.Avatar,
		CoverImage:   in.CoverImage,
		PasswordHash: string(hash),
	}

	if err := m.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	m.publish(ctx, models.EventUserRegistered, user)
	m.log.LogAuthEvent(user.ID, "register", true)

	return user.Public(), nil
}

// Login verifies the identifier/password pair and issues a fresh token
// pair. The stored refresh token is overwritten, invalidating any prior
// session's refresh token.
func (m *Manager) Login(ctx context.Context, identifier, password string) (*models.TokenPair, *models.PublicUser, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, nil, apierr.Validation("username or email and password are required")
	}

	user, err := m.users.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("not_found").Inc()
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		m.log.LogAuthEvent(user.ID, "login", false)
		return nil, nil, apierr.InvalidCredentials()
	}

	pair, err := m.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := m.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	m.publish(ctx, models.EventUserLoggedIn, user)
	m.log.LogAuthEvent(user.ID, "login", true)

	return pair, user.Public(), nil
}

// Refresh exchanges a presented refresh token for a new token pair. The
// presented token must verify and must equal the stored one; the swap is a
// single conditional update against the store, so of two concurrent calls
// with the same token exactly one wins. A rotated or cleared token is
// permanently rejected even if resubmitted.
func (m *Manager) Refresh(ctx context.Context, presented string) (*models.TokenPair, error) {
	if presented == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("missing").Inc()
		return nil, apierr.Unauthorized("unauthorized request")
	}

	claims, err := m.tokens.VerifyRefresh(presented)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		return nil, apierr.Unauthorized("invalid refresh token")
	}

	user, err := m.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		return nil, apierr.Unauthorized("invalid refresh token")
	}

	pair, err := m.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	rotated, err := m.users.RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		metrics.TokenRefreshesTotal.WithLabelValues("reused").Inc()
		m.log.LogAuthEvent(user.ID, "refresh", false)
		return nil, apierr.Unauthorized("refresh token is expired or used")
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	m.log.LogAuthEvent(user.ID, "refresh", true)

	return pair, nil
}

// Logout clears the stored refresh token unconditionally. Subsequent
// refresh calls fail until the next login.
func (m *Manager) Logout(ctx context.Context, userID string) error {
	if err := m.users.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}

	m.publish(ctx, models.EventUserLoggedOut, &models.User{ID: userID})
	m.log.LogAuthEvent(userID, "logout", true)

	return nil
}

// ChangePassword replaces the password digest after verifying the old
// password
func (m *Manager) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return apierr.Validation("new password is required")
	}

	user, err := m.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		m.log.LogAuthEvent(userID, "change_password", false)
		return apierr.InvalidCredentials()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apierr.Internal("failed to process password")
	}

	if err := m.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	m.publish(ctx, models.EventPasswordChanged, user)
	m.log.LogAuthEvent(userID, "change_password", true)

	return nil
}

func (m *Manager) issuePair(userID string) (*models.TokenPair, error) {
	access, err := m.tokens.IssueAccess(userID)
	if err != nil {
		return nil, m.signingError(err)
	}

	refresh, err := m.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, m.signingError(err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) signingError(err error) error {
	m.log.ErrorWithErr("failed to sign token", err)
	if errors.Is(err, token.ErrNoSecret) {
		return apierr.Internal("token signing is misconfigured")
	}
	return apierr.Internal("failed to generate tokens")
}

// publish emits an account event without letting a broker failure surface
// to the caller
func (m *Manager) publish(ctx context.Context, eventType string, user *models.User) {
	if m.events == nil {
		return
	}

	event := models.AccountEvent{
		Type:     eventType,
		UserID:   user.ID,
		Username: user.Username,
		At:       time.Now().UTC(),
	}

	if err := m.events.Publish(ctx, event); err != nil {
		m.log.WithUserID(user.ID).ErrorWithErr("failed to publish account event", err)
	}
}
