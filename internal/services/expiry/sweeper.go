package expiry

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/pickupgames/internal/dependencies/clock"
	"github.com/mcoot/pickupgames/internal/metrics"
	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/store"
)

// Sweeper moves PENDING requests to EXPIRED once their event has started.
// Requests whose event no longer exists are expired as well.
type Sweeper struct {
	store   *store.Store
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Sweeper
func New(st *store.Store, clock clock.Clock, m *metrics.Metrics, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:   st,
		clock:   clock,
		metrics: m,
		logger:  logger.With(slog.String("component", "expiry")),
	}
}

// Sweep expires every stale PENDING request and returns how many changed.
// It does not write when nothing is stale, so read paths may call it freely.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.clock.Now()
	if len(stale(s.store.Snapshot(), now)) == 0 {
		return 0, nil
	}

	var expired int
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		expired = 0
		for _, r := range stale(tx.Snapshot(), now) {
			next, err := r.Transition(model.RequestStatusExpired, now)
			if err != nil {
				return err
			}
			tx.PutRequest(next)
			expired++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("expiry sweep failed", "error", err)
		return 0, err
	}

	s.metrics.AddExpired(expired)
	s.logger.Info("expired pending requests", "count", expired)
	return expired, nil
}

// Run sweeps immediately and then on every tick until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("expiry sweeper started", "interval", interval.String())
	for {
		// Errors are logged by Sweep; the next tick retries
		_, _ = s.Sweep(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func stale(snap store.Snapshot, now time.Time) []model.JoinRequest {
	var out []model.JoinRequest
	for _, r := range snap.Requests {
		if r.Status != model.RequestStatusPending {
			continue
		}
		e, ok := snap.Events[r.EventID]
		if !ok || e.HasStarted(now) {
			out = append(out, r)
		}
	}
	return out
}
