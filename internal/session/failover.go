package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// FailoverRepository serves from the primary store until it fails, then
// falls back to the secondary and probes the primary again after a minute.
type FailoverRepository struct {
	primary   Repository
	fallback  Repository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverRepository(primary, fallback Repository, logger *zerolog.Logger) *FailoverRepository {
	return &FailoverRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

const recoveryInterval = time.Minute

func (r *FailoverRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary session store failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverRepository) shouldProbe() bool {
	return r.isDown.Load() &&
		time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverRepository) Get(ctx context.Context, key string) (string, error) {
	if !r.isDown.Load() {
		value, err := r.primary.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		r.markDown(err)
	} else if r.shouldProbe() {
		value, err := r.primary.Get(ctx, key)
		if err == nil {
			r.isDown.Store(false)
			return value, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.Get(ctx, key)
}

func (r *FailoverRepository) Set(ctx context.Context, key, value string) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, key, value)
		if err == nil {
			// Mirror into the fallback so a later failover still sees
			// the current session.
			_ = r.fallback.Set(ctx, key, value)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Set(ctx, key, value)
}

func (r *FailoverRepository) Delete(ctx context.Context, key string) error {
	if !r.isDown.Load() {
		err := r.primary.Delete(ctx, key)
		if err == nil {
			_ = r.fallback.Delete(ctx, key)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Delete(ctx, key)
}
