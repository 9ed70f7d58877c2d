package dashboard

import (
	"net/http"
	"path/filepath"
	"sort"

	"rentdash/internal/listview"
	"rentdash/internal/models"
	"rentdash/internal/transform"
	"rentdash/internal/upstream"
)

// MonthRevenue is one bar of the revenue chart.
type MonthRevenue struct {
	Month   string  `json:"month"` // "2024-01"
	Total   float64 `json:"total"`
	Display string  `json:"display"`
	Count   int     `json:"count"`
}

func (h *Handlers) handleRevenue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	lp := upstream.ListParams{Year: atoiDefault(q.Get("year"), 0)}

	txs, _, err := cachedList(r.Context(), h.cache, models.ResourceTransactions,
		lp.All(h.maxSearchFetch), h.client.ListTransactions)
	if err != nil {
		h.fetchFailed(r.URL.Path, err)
		h.writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"months": monthlyRevenue(txs)})
}

// monthlyRevenue sums completed payments per calendar month, skipping
// cancelled and refunded records and records without a parseable date.
func monthlyRevenue(txs []models.Transaction) []MonthRevenue {
	byMonth := make(map[string]*MonthRevenue)
	for _, tx := range txs {
		if tx.Status == models.StatusCancelled || tx.Status == models.StatusRefunded {
			continue
		}
		if tx.CreatedAt.IsZero() {
			continue
		}
		month := tx.CreatedAt.Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = &MonthRevenue{Month: month}
			byMonth[month] = m
		}
		m.Total += tx.FinalAmount
		m.Count++
	}

	out := make([]MonthRevenue, 0, len(byMonth))
	for _, m := range byMonth {
		m.Display = transform.FormatCurrency(m.Total)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func (h *Handlers) handleBookingsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Export the whole filtered view, not just the visible page.
	p := h.parseListParams(r)
	p.Page = 1
	p.PageSize = h.maxSearchFetch

	snap, err := listview.Resolve(r.Context(), h.bookingSource(), p)
	if err != nil {
		h.fetchFailed(r.URL.Path, err)
		h.writeUpstreamError(w, err)
		return
	}

	path, err := h.export.Bookings(snap.Rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}
