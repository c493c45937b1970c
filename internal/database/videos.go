package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/streamhub/accounts/internal/apierr"
	"github.com/streamhub/accounts/pkg/models"
)

const videoColumns = `id, owner_id, title, COALESCE(description, ''), video_url, thumbnail,
       duration, views, is_published, created_at, updated_at`

// VideoRepository provides content-store operations over video metadata
type VideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func scanVideo(row pgx.Row) (*models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoURL, &video.Thumbnail, &video.Duration, &video.Views,
		&video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierr.NotFound("video does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}
	return &video, nil
}

// CreateVideo inserts a new video metadata record
func (r *VideoRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}

	query := `
		INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		video.ID, video.OwnerID, video.Title, video.Description,
		video.VideoURL, video.Thumbnail, video.Duration, video.IsPublished,
	).Scan(&video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetVideo retrieves a video by id
func (r *VideoRepository) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	return scanVideo(r.db.Pool.QueryRow(ctx, query, id))
}

// GetVideosByIDs retrieves videos for the given ids, keyed by id. Missing
// ids are simply absent from the result.
func (r *VideoRepository) GetVideosByIDs(ctx context.Context, ids []string) (map[string]*models.Video, error) {
	videos := make(map[string]*models.Video, len(ids))
	if len(ids) == 0 {
		return videos, nil
	}

	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = ANY($1)`

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos[video.ID] = video
	}

	return videos, rows.Err()
}

// IncrementViews bumps the view counter
func (r *VideoRepository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE videos SET views = views + 1 WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	return nil
}
