// Package listview implements the list-page pipeline shared by every
// dashboard table: normalized query params, an Idle/Searching resolution
// strategy, and a stateful controller with debounced search and latest-wins
// refresh semantics.
package listview

import (
	"context"
	"sort"
	"strings"
	"time"

	"rentdash/internal/models"
)

// Mode reports which pagination source is authoritative.
type Mode string

const (
	// ModeIdle: no search filter; the server's page and counts are used
	// as-is.
	ModeIdle Mode = "idle"
	// ModeSearching: a search term is active; the collection is filtered
	// and paginated locally.
	ModeSearching Mode = "searching"
)

// Params is the full filter state of one list page.
type Params struct {
	Page     int
	PageSize int
	Status   string
	Month    int
	Year     int
	Search   string
	Sort     string
}

// Normalize fills defaults and clamps invalid values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = models.DefaultPageSize
	}
	if p.Sort != models.SortAsc {
		p.Sort = models.SortDesc
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// Searching reports whether the params put the page in search mode.
func (p Params) Searching() bool {
	return strings.TrimSpace(p.Search) != ""
}

// Source provides the data access and per-record hooks for one resource.
// FetchPage is used in Idle mode; FetchAll feeds the Searching mode filter.
type Source[T any] struct {
	FetchPage func(ctx context.Context, p Params) ([]T, models.Pagination, error)
	FetchAll  func(ctx context.Context, p Params) ([]T, error)
	Matches   func(record T, term string) bool
	SortKey   func(record T) time.Time
}

// Snapshot is the resolved state handed to the table renderer.
type Snapshot[T any] struct {
	Rows       []T
	Pagination models.Pagination
	Mode       Mode
}

// Resolve derives the current page for the given params. It is a pure
// function of the params and the source's data; all controller state changes
// go through explicit setters instead of implicit recomputation.
func Resolve[T any](ctx context.Context, src Source[T], p Params) (Snapshot[T], error) {
	p = p.Normalize()

	if !p.Searching() {
		rows, pg, err := src.FetchPage(ctx, p)
		if err != nil {
			return Snapshot[T]{}, err
		}
		return Snapshot[T]{Rows: rows, Pagination: pg, Mode: ModeIdle}, nil
	}

	all, err := src.FetchAll(ctx, p)
	if err != nil {
		return Snapshot[T]{}, err
	}

	term := strings.ToLower(p.Search)
	filtered := make([]T, 0, len(all))
	for _, record := range all {
		if src.Matches(record, term) {
			filtered = append(filtered, record)
		}
	}

	sortRecords(filtered, src.SortKey, p.Sort)

	pg := models.Paginate(len(filtered), p.Page, p.PageSize)
	start, end := pg.Slice(len(filtered))
	return Snapshot[T]{Rows: filtered[start:end], Pagination: pg, Mode: ModeSearching}, nil
}

// sortRecords orders by the date key, keeping the original collection order
// for equal keys.
func sortRecords[T any](records []T, key func(T) time.Time, dir string) {
	if key == nil {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := key(records[i]), key(records[j])
		if dir == models.SortAsc {
			return a.Before(b)
		}
		return b.Before(a)
	})
}

// ContainsFold reports whether s contains the already-lowercased term.
func ContainsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
