package models

import (
	"time"
)

// Video represents a published video's metadata. The binary itself lives in
// object storage; only the reference is kept here.
type Video struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	VideoURL    string    `json:"video_url" db:"video_url"`
	Thumbnail   string    `json:"thumbnail" db:"thumbnail"`
	Duration    float64   `json:"duration" db:"duration"`
	Views       int64     `json:"views" db:"views"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// VideoOwner is the denormalized owner projection embedded in watch-history
// entries
type VideoOwner struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// WatchHistoryEntry is a video with its owner reference replaced by the
// projected owner record
type WatchHistoryEntry struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	VideoURL    string      `json:"video_url"`
	Thumbnail   string      `json:"thumbnail"`
	Duration    float64     `json:"duration"`
	Views       int64       `json:"views"`
	CreatedAt   time.Time   `json:"created_at"`
	Owner       *VideoOwner `json:"owner"`
}
