// Package query filters the match snapshot by status, tier group, and
// time, with a defined sort order.
package query

import (
	"log/slog"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"matchbot/internal/model"
	"matchbot/internal/snapshot"
)

// Engine answers match queries against the latest snapshot. It never
// returns an error: a cold or malformed snapshot yields an empty result.
type Engine struct {
	store *snapshot.Store
	clock clockwork.Clock
	log   *slog.Logger
}

// New creates an Engine.
func New(store *snapshot.Store, clock clockwork.Clock, log *slog.Logger) *Engine {
	return &Engine{store: store, clock: clock, log: log}
}

// Matches returns up to limit matches of the requested status and tier
// group. Upcoming and running results are sorted by start time
// ascending, past results descending (most recent first).
func (e *Engine) Matches(status model.QueryStatus, tier model.TierGroup, limit int) []model.Match {
	if limit <= 0 {
		return nil
	}

	snap := e.store.Read(snapshot.MatchesName)
	now := e.clock.Now().UTC()

	var out []model.Match
	for _, m := range snap.Matches {
		if !tier.Accepts(m.Tournament.Tier) {
			continue
		}
		if !e.statusMatches(m, status, now) {
			continue
		}
		out = append(out, m)
	}

	desc := status == model.QueryPast
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].BeginAt, out[j].BeginAt
		// Unknown start times sort last regardless of direction.
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case desc:
			return a.After(*b)
		default:
			return a.Before(*b)
		}
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// statusMatches evaluates the status predicate against now. Running is
// the authoritative upstream flag; upcoming and past are derived from
// the parsed start time so the engine tolerates upstream status lag.
func (e *Engine) statusMatches(m model.Match, status model.QueryStatus, now time.Time) bool {
	switch status {
	case model.QueryRunning:
		return m.Status == model.StatusRunning
	case model.QueryUpcoming:
		if m.BeginAt == nil {
			e.logMissingBeginAt(m)
			return false
		}
		return m.BeginAt.After(now)
	case model.QueryPast:
		if m.BeginAt == nil {
			e.logMissingBeginAt(m)
			return false
		}
		return m.BeginAt.Before(now) && m.Status != model.StatusRunning
	default:
		return false
	}
}

func (e *Engine) logMissingBeginAt(m model.Match) {
	e.log.Warn("match has no usable begin_at, excluded from time filter", "match_id", m.ID)
}
