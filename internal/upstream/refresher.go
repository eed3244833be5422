package upstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"matchbot/internal/model"
	"matchbot/internal/snapshot"
)

// Refresher pulls all per-status match endpoints, merges them, and
// replaces the local snapshot. A failed refresh leaves the previous
// snapshot in place.
type Refresher struct {
	client *Client
	store  *snapshot.Store
	clock  clockwork.Clock
	log    *slog.Logger
}

// NewRefresher creates a Refresher.
func NewRefresher(client *Client, store *snapshot.Store, clock clockwork.Clock, log *slog.Logger) *Refresher {
	return &Refresher{client: client, store: store, clock: clock, log: log}
}

// Refresh fetches running, upcoming, and past matches and writes the
// merged snapshot. An endpoint that fails is omitted from the batch;
// only when every endpoint fails is the write skipped entirely.
func (r *Refresher) Refresh(ctx context.Context) error {
	statuses := []model.QueryStatus{model.QueryRunning, model.QueryUpcoming, model.QueryPast}

	var merged []model.Match
	reachable := 0
	for _, status := range statuses {
		raws, err := r.client.FetchMatches(ctx, status)
		if err != nil {
			r.log.Warn("fetch matches", "status", status, "error", err)
			continue
		}
		reachable++
		merged = append(merged, NormalizeAll(raws, r.log)...)
	}

	if reachable == 0 {
		return errors.New("all match endpoints unreachable, keeping previous snapshot")
	}

	now := r.clock.Now().UTC()
	snap := &model.Snapshot{Matches: merged, UpdatedAt: &now}
	if err := r.store.Write(snapshot.MatchesName, snap); err != nil {
		return fmt.Errorf("write match snapshot: %w", err)
	}

	r.log.Info("match snapshot refreshed", "matches", len(merged), "endpoints", reachable)
	return nil
}

// RefreshTournaments fetches the tournament list and replaces its
// snapshot.
func (r *Refresher) RefreshTournaments(ctx context.Context) error {
	raws, err := r.client.FetchTournaments(ctx)
	if err != nil {
		return fmt.Errorf("fetch tournaments: %w", err)
	}

	tournaments := make([]model.Tournament, 0, len(raws))
	for _, raw := range raws {
		if raw.ID == 0 {
			continue
		}
		tournaments = append(tournaments, model.Tournament{ID: raw.ID, Name: raw.Name, Tier: raw.Tier})
	}

	now := r.clock.Now().UTC()
	snap := &model.TournamentSnapshot{Tournaments: tournaments, UpdatedAt: &now}
	if err := r.store.Write(snapshot.TournamentsName, snap); err != nil {
		return fmt.Errorf("write tournament snapshot: %w", err)
	}

	r.log.Info("tournament snapshot refreshed", "tournaments", len(tournaments))
	return nil
}
