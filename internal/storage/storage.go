// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"time"

	"matchbot/internal/model"
)

// Storage is the interface for all subscriber persistence operations.
// Subscriber rows are soft-deleted only: unsubscribing clears is_active
// and keeps notification history intact.
type Storage interface {
	// UpsertSubscriber inserts or updates a subscriber. Tier is always
	// overwritten; language is set only on first insert so re-subscribing
	// never resets a previously chosen language.
	UpsertSubscriber(ctx context.Context, userID int64, tier model.TierGroup) error
	SetActive(ctx context.Context, userID int64, active bool) error
	SetTier(ctx context.Context, userID int64, tier model.TierGroup) error
	SetLanguage(ctx context.Context, userID int64, lang string) error
	ListActiveSubscribers(ctx context.Context) ([]model.Subscriber, error)
	// GetTier returns the subscriber's tier group, defaulting to the
	// top-tier group for unknown users.
	GetTier(ctx context.Context, userID int64) (model.TierGroup, error)
	// GetLanguage returns the subscriber's language, defaulting to "en".
	GetLanguage(ctx context.Context, userID int64) (string, error)

	WasNotified(ctx context.Context, userID, matchID int64) (bool, error)
	// MarkNotified records a delivery; duplicate marks are no-ops.
	MarkNotified(ctx context.Context, userID, matchID int64) error
	// MarkNotifiedBulk records many deliveries in one transaction.
	MarkNotifiedBulk(ctx context.Context, pairs []model.NotifiedMatch) error
	// RecentlyNotifiedIDs returns the match ids the user was alerted
	// about within the retention window.
	RecentlyNotifiedIDs(ctx context.Context, userID int64, window time.Duration) (map[int64]struct{}, error)
	// PruneNotified deletes notification records older than the window
	// and returns the number removed.
	PruneNotified(ctx context.Context, olderThan time.Duration) (int64, error)

	Close() error
}
