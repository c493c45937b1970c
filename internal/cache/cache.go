package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streamhub/accounts/pkg/models"
)

// Default TTLs. Channel profiles are cheap to recompute, so they stay
// short-lived; identities live a bit longer and are invalidated on mutation.
const (
	ChannelProfileTTL = 30 * time.Second
	PublicUserTTL     = 5 * time.Minute
)

// Cache provides caching for derived views and resolved identities
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Channel profile operations

func profileKey(username string) string {
	return fmt.Sprintf("profile:%s", username)
}

// SetChannelProfile caches the viewer-independent channel profile
func (c *Cache) SetChannelProfile(ctx context.Context, username string, profile *models.ChannelProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	return c.client.Set(ctx, profileKey(username), data, ChannelProfileTTL).Err()
}

// GetChannelProfile retrieves a cached channel profile. A miss returns
// (nil, nil).
func (c *Cache) GetChannelProfile(ctx context.Context, username string) (*models.ChannelProfile, error) {
	data, err := c.client.Get(ctx, profileKey(username)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get profile from cache: %w", err)
	}

	var profile models.ChannelProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// DeleteChannelProfile invalidates a cached channel profile
func (c *Cache) DeleteChannelProfile(ctx context.Context, username string) error {
	return c.client.Del(ctx, profileKey(username)).Err()
}

// Public user operations

func userKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// SetPublicUser caches a resolved public identity
func (c *Cache) SetPublicUser(ctx context.Context, user *models.PublicUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	return c.client.Set(ctx, userKey(user.ID), data, PublicUserTTL).Err()
}

// GetPublicUser retrieves a cached public identity. A miss returns
// (nil, nil).
func (c *Cache) GetPublicUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	data, err := c.client.Get(ctx, userKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	var user models.PublicUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// DeletePublicUser invalidates a cached public identity
func (c *Cache) DeletePublicUser(ctx context.Context, userID string) error {
	return c.client.Del(ctx, userKey(userID)).Err()
}
