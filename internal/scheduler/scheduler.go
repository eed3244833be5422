// Package scheduler runs the periodic snapshot refresh and notification
// dispatch loops.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"matchbot/internal/notify"
	"matchbot/internal/upstream"
)

// Scheduler owns the two background loops. They tick independently: a
// failed refresh leaves the previous snapshot in place, a failed
// dispatch cycle simply tries again next tick.
type Scheduler struct {
	refresher    *upstream.Refresher
	dispatcher   *notify.Dispatcher
	log          *slog.Logger
	refreshTick  time.Duration
	dispatchTick time.Duration
}

// New creates a Scheduler with the default intervals.
func New(refresher *upstream.Refresher, dispatcher *notify.Dispatcher, log *slog.Logger) *Scheduler {
	return &Scheduler{
		refresher:    refresher,
		dispatcher:   dispatcher,
		log:          log,
		refreshTick:  10 * time.Minute,
		dispatchTick: time.Minute,
	}
}

// SetIntervals overrides the default refresh and dispatch intervals.
func (s *Scheduler) SetIntervals(refresh, dispatch time.Duration) {
	if refresh > 0 {
		s.refreshTick = refresh
	}
	if dispatch > 0 {
		s.dispatchTick = dispatch
	}
}

// Run starts both loops, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.runRefresh(ctx)
	}()
	go func() {
		defer wg.Done()
		s.runDispatch(ctx)
	}()

	wg.Wait()
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	s.refresh(ctx)

	ticker := time.NewTicker(s.refreshTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	if err := s.refresher.Refresh(ctx); err != nil {
		s.log.Error("refresh match snapshot", "error", err)
	}
	if err := s.refresher.RefreshTournaments(ctx); err != nil {
		s.log.Error("refresh tournament snapshot", "error", err)
	}
}

func (s *Scheduler) runDispatch(ctx context.Context) {
	ticker := time.NewTicker(s.dispatchTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatcher.RunCycle(ctx)
		}
	}
}
