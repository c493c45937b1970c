package models

import (
	"time"
)

// Subscription is an edge in the subscriber graph: SubscriberID follows
// ChannelID. Edges are deduplicated at write time, so counts are
// distinct-subscriber counts.
type Subscription struct {
	SubscriberID string    `json:"subscriber_id" db:"subscriber_id"`
	ChannelID    string    `json:"channel_id" db:"channel_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AccountEvent describes an account lifecycle event published for
// downstream consumers
type AccountEvent struct {
	Type     string    `json:"type"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

// Account event types
const (
	EventUserRegistered  = "user.registered"
	EventUserLoggedIn    = "user.logged_in"
	EventUserLoggedOut   = "user.logged_out"
	EventPasswordChanged = "user.password_changed"
)
