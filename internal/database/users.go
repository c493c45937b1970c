package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamhub/accounts/internal/apierr"
	"github.com/streamhub/accounts/pkg/models"
)

const userColumns = `id, username, email, full_name, avatar, cover_image,
       password_hash, COALESCE(refresh_token, ''), created_at, updated_at`

// UserRepository provides credential-store operations over Postgres
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Health checks if the backing database is healthy
func (r *UserRepository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.Avatar,
		&user.CoverImage, &user.PasswordHash, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new user record. Username and email uniqueness is
// enforced by the schema; violations surface as Conflict.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, username, email, full_name, avatar, cover_image, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.FullName,
		user.Avatar, user.CoverImage, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apierr.Conflict("user with this username or email already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by id
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.Pool.QueryRow(ctx, query, id))
}

// GetUserByUsername retrieves a user by case-folded username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = lower($1)`
	return scanUser(r.db.Pool.QueryRow(ctx, query, username))
}

// GetUserByIdentifier retrieves a user whose username or email matches the
// identifier, both case-folded
func (r *UserRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = lower($1) OR email = lower($1)`
	return scanUser(r.db.Pool.QueryRow(ctx, query, identifier))
}

// GetUsersByIDs retrieves users for the given ids, keyed by id. Missing ids
// are simply absent from the result.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[user.ID] = user
	}

	return users, rows.Err()
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
// Only this single field is touched so the write never merges with
// concurrent profile updates.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	query := `UPDATE users SET refresh_token = $2 WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierr.NotFound("user does not exist")
	}

	return nil
}

// RotateRefreshToken swaps the stored refresh token from previous to next in
// a single conditional update. It reports false when the stored token no
// longer matches previous, which is how a concurrent rotation or a replayed
// token loses the race.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID, previous, next string) (bool, error) {
	query := `UPDATE users SET refresh_token = $3 WHERE id = $1 AND refresh_token = $2`

	tag, err := r.db.Pool.Exec(ctx, query, userID, previous, next)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ClearRefreshToken removes the stored refresh token
func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `UPDATE users SET refresh_token = NULL WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	return nil
}

// UpdatePassword replaces the stored password digest
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierr.NotFound("user does not exist")
	}

	return nil
}

// UpdateAccount patches full name and email
func (r *UserRepository) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	query := `
		UPDATE users
		SET full_name = $2, email = lower($3), updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, userID, fullName, email))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, apierr.Conflict("email already in use")
	}

	return user, err
}

// UpdateAvatar replaces the avatar reference
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error) {
	query := `
		UPDATE users
		SET avatar = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.Pool.QueryRow(ctx, query, userID, avatar))
}

// UpdateCoverImage replaces the cover image reference
func (r *UserRepository) UpdateCoverImage(ctx context.Context, userID, coverImage string) (*models.User, error) {
	query := `
		UPDATE users
		SET cover_image = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.Pool.QueryRow(ctx, query, userID, coverImage))
}

// AppendWatchHistory records that the user watched the video. Re-watching
// bumps the entry to the front instead of duplicating it, keeping the
// sequence most-recent-first.
func (r *UserRepository) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, video_id)
		DO UPDATE SET watched_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}

	return nil
}

// GetWatchHistoryVideoIDs returns the user's watched video ids,
// most-recent-first
func (r *UserRepository) GetWatchHistoryVideoIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT video_id
		FROM watch_history
		WHERE user_id = $1
		ORDER BY watched_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan watch history: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
