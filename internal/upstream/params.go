package upstream

import (
	"net/url"
	"strconv"

	"rentdash/internal/models"
)

// ListParams are the recognized list query options, mirrored onto the rental
// API's query string.
type ListParams struct {
	Page    int
	PerPage int
	Status  string // "" or "All" means no status filter
	Month   int    // 1..12, 0 means no filter
	Year    int
	Search  string
	Sort    string // models.SortAsc or models.SortDesc
}

// Normalize fills defaults and clamps out-of-range values.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = models.DefaultPageSize
	}
	if p.Status == "All" {
		p.Status = ""
	}
	if p.Month < 0 || p.Month > 12 {
		p.Month = 0
	}
	if p.Sort != models.SortAsc {
		p.Sort = models.SortDesc
	}
	return p
}

// Values encodes the params as upstream query parameters.
func (p ListParams) Values() url.Values {
	p = p.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("per_page", strconv.Itoa(p.PerPage))
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	if p.Month > 0 {
		v.Set("month", strconv.Itoa(p.Month))
	}
	if p.Year > 0 {
		v.Set("year", strconv.Itoa(p.Year))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	v.Set("sort", p.Sort)
	return v
}

// Args returns the params as a flat map for cache key construction.
func (p ListParams) Args() map[string]string {
	p = p.Normalize()
	args := map[string]string{
		"page":     strconv.Itoa(p.Page),
		"per_page": strconv.Itoa(p.PerPage),
		"sort":     p.Sort,
	}
	if p.Status != "" {
		args["status"] = p.Status
	}
	if p.Month > 0 {
		args["month"] = strconv.Itoa(p.Month)
	}
	if p.Year > 0 {
		args["year"] = strconv.Itoa(p.Year)
	}
	if p.Search != "" {
		args["search"] = p.Search
	}
	return args
}

// All widens the params to fetch the whole (capped) collection for
// client-side filtering, dropping the search term and pagination.
func (p ListParams) All(max int) ListParams {
	if max <= 0 {
		max = models.DefaultMaxSearchFetch
	}
	p = p.Normalize()
	p.Page = 1
	p.PerPage = max
	p.Search = ""
	return p
}
