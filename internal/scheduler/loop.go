package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/me/rota/pkg/model"
)

// Runner produces and records one complete allocation round.
type Runner interface {
	RunRound(ctx context.Context) (*model.RoundRecord, error)
}

// Config holds scheduler configuration.
type Config struct {
	Interval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Interval: 24 * time.Hour}
}

// Loop implements the Scheduler interface with a ticker that allocates a
// round every Interval.
type Loop struct {
	runner   Runner
	config   Config
	logger   *slog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a new scheduler loop.
func NewLoop(r Runner, cfg Config, logger *slog.Logger) *Loop {
	return &Loop{
		runner: r,
		config: cfg,
		logger: logger.With("component", "scheduler"),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins the scheduling loop. Blocks until ctx is cancelled or Stop is called.
func (l *Loop) Start(ctx context.Context) error {
	if l.config.Interval <= 0 {
		close(l.doneCh)
		return fmt.Errorf("scheduler interval must be positive, got %s", l.config.Interval)
	}
	l.logger.Info("scheduler started", "interval", l.config.Interval)
	ticker := time.NewTicker(l.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("scheduler stopping (context cancelled)")
			close(l.doneCh)
			return ctx.Err()
		case <-l.stopCh:
			l.logger.Info("scheduler stopping (stop called)")
			close(l.doneCh)
			return nil
		case <-ticker.C:
			// A failed round is retried at the next tick.
			if err := l.Tick(ctx); err != nil {
				l.logger.Error("tick error", "error", err)
			}
		}
	}
}

// Stop gracefully shuts down the scheduler and waits for the current tick
// to finish. It must only be called after Start.
func (l *Loop) Stop() error {
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.doneCh
	return nil
}

// Tick allocates and records a single round.
func (l *Loop) Tick(ctx context.Context) error {
	rec, err := l.runner.RunRound(ctx)
	if err != nil {
		return fmt.Errorf("scheduled round: %w", err)
	}
	l.logger.Info("scheduled round created", "id", rec.ID, "attempts", rec.Attempts, "idle", len(rec.Idle))
	return nil
}
