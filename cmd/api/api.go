package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streamhub/accounts/internal/logging"
	"github.com/streamhub/accounts/internal/metrics"
	"github.com/streamhub/accounts/internal/profile"
	"github.com/streamhub/accounts/internal/session"
	"github.com/streamhub/accounts/internal/token"
	"github.com/streamhub/accounts/pkg/models"
)

// Store surfaces the handlers touch directly, narrowed so tests can swap in
// fakes

type userStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverImage string) (*models.User, error)
	AppendWatchHistory(ctx context.Context, userID, videoID string) error
	Health(ctx context.Context) error
}

type subscriptionStore interface {
	Subscribe(ctx context.Context, subscriberID, channelID string) error
	Unsubscribe(ctx context.Context, subscriberID, channelID string) error
}

type videoStore interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	IncrementViews(ctx context.Context, id string) error
}

type mediaStorage interface {
	UploadImage(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

type identityCache interface {
	GetPublicUser(ctx context.Context, userID string) (*models.PublicUser, error)
	SetPublicUser(ctx context.Context, user *models.PublicUser) error
	DeletePublicUser(ctx context.Context, userID string) error
	DeleteChannelProfile(ctx context.Context, username string) error
}

// API wires the HTTP handlers to the services behind them
type API struct {
	sessions *session.Manager
	profiles *profile.Service
	tokens   *token.Service
	users    userStore
	subs     subscriptionStore
	videos   videoStore
	media    mediaStorage
	cache    identityCache
	log      *logging.Logger
}

// identityResolver returns the auth gate's subject resolver, served from
// cache when possible
func (api *API) identityResolver() *cachedResolver {
	return &cachedResolver{users: api.users, cache: api.cache}
}

type cachedResolver struct {
	users userStore
	cache identityCache
}

func (r *cachedResolver) ResolveIdentity(ctx context.Context, userID string) (*models.PublicUser, error) {
	if r.cache != nil {
		cached, err := r.cache.GetPublicUser(ctx, userID)
		if err == nil && cached != nil {
			metrics.RecordCacheHit("identity")
			return cached, nil
		}
		metrics.RecordCacheMiss("identity")
	}

	user, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	if r.cache != nil {
		// Ignore cache write failures, the resolve already succeeded
		_ = r.cache.SetPublicUser(ctx, public)
	}

	return public, nil
}

// invalidateIdentity drops the cached identity and channel profile after a
// mutation
func (api *API) invalidateIdentity(ctx context.Context, userID, username string) {
	if api.cache == nil {
		return
	}
	if err := api.cache.DeletePublicUser(ctx, userID); err != nil {
		api.log.WithError(err).Warn("failed to invalidate cached identity")
	}
	if err := api.cache.DeleteChannelProfile(ctx, username); err != nil {
		api.log.WithError(err).Warn("failed to invalidate cached profile")
	}
}

// healthCheck reports service health
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := api.users.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
