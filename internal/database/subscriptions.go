package database

import (
	"context"
	"fmt"
)

// SubscriptionRepository provides relationship-store operations over the
// subscription edge list
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Subscribe adds a subscriber -> channel edge. Duplicate edges are dropped
// at write time, so every edge is unique.
func (r *SubscriptionRepository) Subscribe(ctx context.Context, subscriberID, channelID string) error {
	query := `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`

	if _, err := r.db.Pool.Exec(ctx, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

// Unsubscribe removes the subscriber -> channel edge if present
func (r *SubscriptionRepository) Unsubscribe(ctx context.Context, subscriberID, channelID string) error {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`

	if _, err := r.db.Pool.Exec(ctx, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	return nil
}

// CountSubscribers counts the edges pointing at the channel
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}

	return count, nil
}

// CountSubscriptions counts the edges originating from the subscriber
func (r *SubscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID string) (int64, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, subscriberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	return count, nil
}

// IsSubscribed reports whether the subscriber -> channel edge exists
func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}

	return exists, nil
}
