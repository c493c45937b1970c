package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/streamhub/accounts/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	if cache == nil {
		t.Fatal("Cache should not be nil")
	}

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCache_ChannelProfileOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	profile := &models.ChannelProfile{
		FullName:                  "Ada Lovelace",
		Username:                  "ada",
		Email:                     "ada@x.com",
		SubscribersCount:          3,
		ChannelsSubscribedToCount: 1,
	}

	// Miss before set
	got, err := cache.GetChannelProfile(ctx, "ada")
	if err != nil {
		t.Fatalf("GetChannelProfile failed: %v", err)
	}
	if got != nil {
		t.Error("Expected cache miss before set")
	}

	if err := cache.SetChannelProfile(ctx, "ada", profile); err != nil {
		t.Fatalf("SetChannelProfile failed: %v", err)
	}

	got, err = cache.GetChannelProfile(ctx, "ada")
	if err != nil {
		t.Fatalf("GetChannelProfile failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected cache hit after set")
	}
	if got.Username != "ada" || got.SubscribersCount != 3 {
		t.Errorf("Unexpected cached profile: %+v", got)
	}

	// Expiry
	mr.FastForward(ChannelProfileTTL * 2)
	got, err = cache.GetChannelProfile(ctx, "ada")
	if err != nil {
		t.Fatalf("GetChannelProfile failed: %v", err)
	}
	if got != nil {
		t.Error("Expected cache miss after TTL")
	}
}

func TestCache_ChannelProfileInvalidation(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	if err := cache.SetChannelProfile(ctx, "ada", &models.ChannelProfile{Username: "ada"}); err != nil {
		t.Fatalf("SetChannelProfile failed: %v", err)
	}

	if err := cache.DeleteChannelProfile(ctx, "ada"); err != nil {
		t.Fatalf("DeleteChannelProfile failed: %v", err)
	}

	got, err := cache.GetChannelProfile(ctx, "ada")
	if err != nil {
		t.Fatalf("GetChannelProfile failed: %v", err)
	}
	if got != nil {
		t.Error("Expected cache miss after delete")
	}
}

func TestCache_PublicUserOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	user := &models.PublicUser{
		ID:       "u-ada",
		Username: "ada",
		Email:    "ada@x.com",
		FullName: "Ada Lovelace",
	}

	if err := cache.SetPublicUser(ctx, user); err != nil {
		t.Fatalf("SetPublicUser failed: %v", err)
	}

	got, err := cache.GetPublicUser(ctx, "u-ada")
	if err != nil {
		t.Fatalf("GetPublicUser failed: %v", err)
	}
	if got == nil || got.Username != "ada" {
		t.Errorf("Unexpected cached user: %+v", got)
	}

	if err := cache.DeletePublicUser(ctx, "u-ada"); err != nil {
		t.Fatalf("DeletePublicUser failed: %v", err)
	}

	got, err = cache.GetPublicUser(ctx, "u-ada")
	if err != nil {
		t.Fatalf("GetPublicUser failed: %v", err)
	}
	if got != nil {
		t.Error("Expected cache miss after delete")
	}
}
