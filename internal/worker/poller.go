// Package worker runs the background refresh loop that keeps the dashboard's
// cached list queries warm.
package worker

import (
	"context"
	"time"

	"rentdash/internal/events"

	"github.com/rs/zerolog"
)

// Task is one named refresh unit.
type Task struct {
	Name    string
	Refresh func(ctx context.Context) error
}

// Poller re-runs its tasks on a fixed interval, retrying each failed task
// with exponential backoff before giving up until the next tick.
type Poller struct {
	interval time.Duration
	retry    RetryPolicy
	tasks    []Task
	bus      *events.Bus
	logger   *zerolog.Logger
}

func NewPoller(interval time.Duration, retry RetryPolicy, bus *events.Bus, logger *zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if retry.MaxRetries <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &Poller{
		interval: interval,
		retry:    retry,
		bus:      bus,
		logger:   logger,
	}
}

// AddTask registers a refresh unit. Not safe to call after Start.
func (p *Poller) AddTask(name string, refresh func(ctx context.Context) error) {
	p.tasks = append(p.tasks, Task{Name: name, Refresh: refresh})
}

// Start blocks until ctx is cancelled. The first refresh runs immediately.
func (p *Poller) Start(ctx context.Context) {
	if p.logger != nil {
		p.logger.Info().Dur("interval", p.interval).Int("tasks", len(p.tasks)).Msg("poller started")
	}

	p.runAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if p.logger != nil {
				p.logger.Info().Msg("poller stopped")
			}
			return
		case <-ticker.C:
			p.runAll(ctx)
		}
	}
}

func (p *Poller) runAll(ctx context.Context) {
	for _, task := range p.tasks {
		if ctx.Err() != nil {
			return
		}
		p.runTask(ctx, task)
	}
}

func (p *Poller) runTask(ctx context.Context, task Task) {
	var err error
	for attempt := 1; attempt <= p.retry.MaxRetries; attempt++ {
		if err = task.Refresh(ctx); err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if p.logger != nil {
			p.logger.Warn().Err(err).Str("task", task.Name).Int("attempt", attempt).Msg("refresh failed")
		}
		if attempt == p.retry.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.retry.NextDelay(attempt)):
		}
	}

	if p.logger != nil {
		p.logger.Error().Err(err).Str("task", task.Name).Msg("refresh gave up until next tick")
	}
	if p.bus != nil {
		_ = p.bus.PublishJSON(events.EventFetchFailed, events.MutationPayload{
			Resource: task.Name,
			Action:   "poll",
			Message:  "background refresh failed: " + err.Error(),
		})
	}
}
