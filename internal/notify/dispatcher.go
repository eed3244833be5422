// Package notify finds matches entering their notification window and
// fans out one-time alerts to subscribers.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"matchbot/internal/model"
	"matchbot/internal/query"
	"matchbot/internal/storage"
)

// ErrRecipientUnreachable marks a permanent delivery failure: the
// recipient blocked the bot or no longer exists. The dispatcher reacts
// by deactivating the subscriber.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Sender delivers one match alert to one user. Implementations must
// return an error wrapping ErrRecipientUnreachable for permanent
// failures; any other error is treated as transient.
type Sender interface {
	SendMatchAlert(ctx context.Context, userID int64, match model.Match, lang string) error
}

// Config tunes the dispatcher. Zero values fall back to defaults.
type Config struct {
	WindowBefore time.Duration // alert this long before scheduled start
	WindowAfter  time.Duration // still alert this long after start
	FetchLimit   int           // upcoming matches considered per tier
	MaxInFlight  int           // concurrent delivery cap
	Retention    time.Duration // notified-history window
}

func (c Config) withDefaults() Config {
	if c.WindowBefore <= 0 {
		c.WindowBefore = 5 * time.Minute
	}
	if c.WindowAfter <= 0 {
		c.WindowAfter = 5 * time.Minute
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = 10
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = 8
	}
	if c.Retention <= 0 {
		c.Retention = 7 * 24 * time.Hour
	}
	return c
}

// Dispatcher runs notification cycles. It is stateless across cycles
// beyond what the storage layer records.
type Dispatcher struct {
	store  storage.Storage
	engine *query.Engine
	sender Sender
	clock  clockwork.Clock
	cfg    Config
	log    *slog.Logger
}

// New creates a Dispatcher.
func New(store storage.Storage, engine *query.Engine, sender Sender, clock clockwork.Clock, cfg Config, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		engine: engine,
		sender: sender,
		clock:  clock,
		cfg:    cfg.withDefaults(),
		log:    log,
	}
}

// RunCycle performs one dispatch pass: load active subscribers, find
// due matches per tier group, skip already-notified pairs, deliver
// concurrently, then persist all successes in one bulk write. Failures
// never abort the cycle; an unmarked pair is naturally retried next
// cycle.
func (d *Dispatcher) RunCycle(ctx context.Context) {
	subs, err := d.store.ListActiveSubscribers(ctx)
	if err != nil {
		d.log.Error("list active subscribers", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	now := d.clock.Now().UTC()
	dueByTier := map[model.TierGroup][]model.Match{
		model.TierTop: d.dueMatches(model.TierTop, now),
		model.TierAll: d.dueMatches(model.TierAll, now),
	}

	var mu sync.Mutex
	var delivered []model.NotifiedMatch

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.MaxInFlight)

	for _, sub := range subs {
		due := dueByTier[sub.Tier]
		if len(due) == 0 {
			continue
		}

		recent, err := d.store.RecentlyNotifiedIDs(ctx, sub.UserID, d.cfg.Retention)
		if err != nil {
			// Skipping this user is safer than risking a duplicate alert.
			d.log.Error("load notified history", "user_id", sub.UserID, "error", err)
			continue
		}

		for _, m := range due {
			if _, seen := recent[m.ID]; seen {
				continue
			}

			userID, match, lang := sub.UserID, m, sub.Language
			g.Go(func() error {
				err := d.sender.SendMatchAlert(gctx, userID, match, lang)
				switch {
				case errors.Is(err, ErrRecipientUnreachable):
					d.log.Warn("recipient unreachable, deactivating", "user_id", userID, "match_id", match.ID)
					if err := d.store.SetActive(gctx, userID, false); err != nil {
						d.log.Error("deactivate subscriber", "user_id", userID, "error", err)
					}
				case err != nil:
					d.log.Warn("delivery failed, will retry next cycle", "user_id", userID, "match_id", match.ID, "error", err)
				default:
					mu.Lock()
					delivered = append(delivered, model.NotifiedMatch{UserID: userID, MatchID: match.ID, NotifiedAt: now})
					mu.Unlock()
				}
				return nil
			})
		}
	}

	_ = g.Wait()

	if len(delivered) > 0 {
		if err := d.store.MarkNotifiedBulk(ctx, delivered); err != nil {
			d.log.Error("persist notified pairs", "count", len(delivered), "error", err)
		} else {
			d.log.Info("notifications dispatched", "count", len(delivered))
		}
	}

	if pruned, err := d.store.PruneNotified(ctx, d.cfg.Retention); err != nil {
		d.log.Error("prune notified history", "error", err)
	} else if pruned > 0 {
		d.log.Debug("pruned notified history", "count", pruned)
	}
}

// dueMatches returns upcoming matches whose start falls inside the
// notification window around now.
func (d *Dispatcher) dueMatches(tier model.TierGroup, now time.Time) []model.Match {
	candidates := d.engine.Matches(model.QueryUpcoming, tier, d.cfg.FetchLimit)

	var due []model.Match
	for _, m := range candidates {
		if m.BeginAt == nil {
			continue
		}
		untilStart := m.BeginAt.Sub(now)
		if untilStart > d.cfg.WindowBefore || untilStart < -d.cfg.WindowAfter {
			continue
		}
		due = append(due, m)
	}
	return due
}
