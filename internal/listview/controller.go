package listview

import (
	"context"
	"sync"
	"time"

	"rentdash/internal/models"

	"github.com/rs/zerolog"
)

// State is the controller's externally visible condition. Err and Rows can
// be set simultaneously: a failed refresh keeps the previous dataset while
// flagging the failure.
type State[T any] struct {
	Snapshot Snapshot[T]
	Params   Params
	Loading  bool
	Err      error
}

// Controller owns the filter state of one list page. Every filter dimension
// change resets the page to 1; search term changes are additionally
// debounced. A generation counter guarantees that when refreshes overlap,
// only the most recently requested one lands.
type Controller[T any] struct {
	mu       sync.Mutex
	src      Source[T]
	params   Params
	snapshot Snapshot[T]
	err      error
	loading  bool
	gen      uint64

	debounce time.Duration
	timer    *time.Timer

	// onChange fires after a committed param change; the owner decides
	// when and on which context to refresh.
	onChange func()

	logger *zerolog.Logger
}

// NewController builds a controller with the given defaults.
func NewController[T any](src Source[T], defaults Params, debounce time.Duration, logger *zerolog.Logger) *Controller[T] {
	if debounce <= 0 {
		debounce = models.DefaultSearchDebounce
	}
	return &Controller[T]{
		src:      src,
		params:   defaults.Normalize(),
		debounce: debounce,
		logger:   logger,
	}
}

// OnChange registers the post-change hook. Must be set before concurrent use.
func (c *Controller[T]) OnChange(fn func()) {
	c.onChange = fn
}

// Refresh resolves the current params and stores the result unless a newer
// refresh has been requested meanwhile.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	params := c.params
	c.loading = true
	c.mu.Unlock()

	snapshot, err := Resolve(ctx, c.src, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		// A newer refresh superseded this one; drop the result.
		return nil
	}
	c.loading = false

	if err != nil {
		// Keep the previous rows so the table preserves row identity,
		// but surface the failure distinctly.
		c.err = err
		if c.logger != nil {
			c.logger.Error().Err(err).Msg("list refresh failed")
		}
		return err
	}

	c.err = nil
	c.snapshot = snapshot
	return nil
}

// State returns a copy of the current controller state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Snapshot: c.snapshot,
		Params:   c.params,
		Loading:  c.loading,
		Err:      c.err,
	}
}

// SetPage navigates without touching the other dimensions.
func (c *Controller[T]) SetPage(page int) {
	c.update(func(p *Params) {
		if page < 1 {
			page = 1
		}
		p.Page = page
	}, false)
}

// SetPageSize changes the page size and resets to page 1.
func (c *Controller[T]) SetPageSize(size int) {
	c.update(func(p *Params) { p.PageSize = size }, true)
}

// SetStatus changes the status filter and resets to page 1.
func (c *Controller[T]) SetStatus(status string) {
	c.update(func(p *Params) { p.Status = status }, true)
}

// SetMonth changes the month/year filter and resets to page 1.
func (c *Controller[T]) SetMonth(month, year int) {
	c.update(func(p *Params) {
		p.Month = month
		p.Year = year
	}, true)
}

// SetSort flips the sort direction and resets to page 1.
func (c *Controller[T]) SetSort(dir string) {
	c.update(func(p *Params) { p.Sort = dir }, true)
}

// SetSearch schedules a debounced search term change. The term is committed
// (and the page reset) only after the debounce interval passes without
// another call.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.update(func(p *Params) { p.Search = term }, true)
	})
	c.mu.Unlock()
}

// update applies a param mutation, optionally resetting the page, and fires
// the change hook when anything actually changed.
func (c *Controller[T]) update(mutate func(*Params), resetPage bool) {
	c.mu.Lock()
	before := c.params
	mutate(&c.params)
	if resetPage {
		c.params.Page = 1
	}
	c.params = c.params.Normalize()
	changed := c.params != before
	hook := c.onChange
	c.mu.Unlock()

	if changed && hook != nil {
		hook()
	}
}
