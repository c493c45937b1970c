package profile

import (
	"context"
	"strings"

	"github.com/streamhub/accounts/internal/logging"
	"github.com/streamhub/accounts/internal/metrics"
	"github.com/streamhub/accounts/pkg/models"
)

// UserReader is the credential-store surface the aggregator reads from
type UserReader interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	GetWatchHistoryVideoIDs(ctx context.Context, userID string) ([]string, error)
}

// SubscriptionReader is the relationship-store surface for counts and
// existence checks
type SubscriptionReader interface {
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}

// VideoReader is the content-store surface for watch-history joins
type VideoReader interface {
	GetVideosByIDs(ctx context.Context, ids []string) (map[string]*models.Video, error)
}

// ProfileCache caches viewer-independent channel profiles. IsSubscribed is
// always recomputed per viewer on top of a cached profile.
type ProfileCache interface {
	GetChannelProfile(ctx context.Context, username string) (*models.ChannelProfile, error)
	SetChannelProfile(ctx context.Context, username string, profile *models.ChannelProfile) error
}

// Service computes derived, read-only views: channel profiles and watch
// history. Nothing it produces is persisted.
type Service struct {
	users  UserReader
	subs   SubscriptionReader
	videos VideoReader
	cache  ProfileCache
	log    *logging.Logger
}

// NewService creates a profile aggregator. cache may be nil.
func NewService(users UserReader, subs SubscriptionReader, videos VideoReader, cache ProfileCache, log *logging.Logger) *Service {
	return &Service{
		users:  users,
		subs:   subs,
		videos: videos,
		cache:  cache,
		log:    log,
	}
}

// GetChannelProfile computes the channel view of targetUsername as seen by
// viewerID: public fields plus subscriber counts and whether the viewer is
// subscribed
func (s *Service) GetChannelProfile(ctx context.Context, viewerID, targetUsername string) (*models.ChannelProfile, error) {
	username := strings.ToLower(strings.TrimSpace(targetUsername))

	metrics.ProfileViewsTotal.Inc()

	profile, channelID, err := s.channelProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	isSubscribed, err := s.subs.IsSubscribed(ctx, viewerID, channelID)
	if err != nil {
		return nil, err
	}
	profile.IsSubscribed = isSubscribed

	return profile, nil
}

// channelProfile returns the viewer-independent part of the profile,
// serving from cache when possible
func (s *Service) channelProfile(ctx context.Context, username string) (*models.ChannelProfile, string, error) {
	if s.cache != nil {
		cached, err := s.cache.GetChannelProfile(ctx, username)
		if err != nil {
			s.log.WithError(err).Warn("channel profile cache read failed")
		}
		if cached != nil {
			metrics.RecordCacheHit("channel_profile")
			// The channel id is needed for the per-viewer check; resolve
			// it from the store, the cheap single-row path.
			user, err := s.users.GetUserByUsername(ctx, username)
			if err != nil {
				return nil, "", err
			}
			return cached, user.ID, nil
		}
		metrics.RecordCacheMiss("channel_profile")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	subscribers, err := s.subs.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	subscribedTo, err := s.subs.CountSubscriptions(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	profile := &models.ChannelProfile{
		FullName:                  user.FullName,
		Username:                  user.Username,
		Avatar:                    user.Avatar,
		CoverImage:                user.CoverImage,
		Email:                     user.Email,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
	}

	if s.cache != nil {
		if err := s.cache.SetChannelProfile(ctx, username, profile); err != nil {
			s.log.WithError(err).Warn("channel profile cache write failed")
		}
	}

	return profile, user.ID, nil
}

// GetWatchHistory returns the user's watched videos, most recent first,
// each with its owner replaced by the projected owner record. Entries whose
// video or owner no longer resolves are dropped rather than failing the
// request. An empty history yields an empty slice.
func (s *Service) GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryEntry, error) {
	metrics.WatchHistoryReadsTotal.Inc()

	ids, err := s.users.GetWatchHistoryVideoIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.WatchHistoryEntry, 0, len(ids))
	if len(ids) == 0 {
		return entries, nil
	}

	videos, err := s.videos.GetVideosByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(videos))
	seen := make(map[string]bool, len(videos))
	for _, video := range videos {
		if !seen[video.OwnerID] {
			seen[video.OwnerID] = true
			ownerIDs = append(ownerIDs, video.OwnerID)
		}
	}

	owners, err := s.users.GetUsersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	// Walk the id sequence, not the video map, so store order wins
	for _, id := range ids {
		video, ok := videos[id]
		if !ok {
			continue // video deleted since it was watched
		}
		owner, ok := owners[video.OwnerID]
		if !ok {
			continue // orphaned video
		}

		entries = append(entries, &models.WatchHistoryEntry{
			ID:          video.ID,
			Title:       video.Title,
			Description: video.Description,
			VideoURL:    video.VideoURL,
			Thumbnail:   video.Thumbnail,
			Duration:    video.Duration,
			Views:       video.Views,
			CreatedAt:   video.CreatedAt,
			Owner: &models.VideoOwner{
				FullName: owner.FullName,
				Username: owner.Username,
				Avatar:   owner.Avatar,
			},
		})
	}

	return entries, nil
}
