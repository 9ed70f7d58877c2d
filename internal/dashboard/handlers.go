package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"rentdash/internal/events"
	"rentdash/internal/listview"
	"rentdash/internal/models"
	"rentdash/internal/querycache"
	"rentdash/internal/session"
	"rentdash/internal/upstream"

	"github.com/rs/zerolog"
)

// Handlers owns the dashboard endpoint set and its dependencies.
type Handlers struct {
	client  *upstream.Client
	cache   *querycache.Cache
	bus     *events.Bus
	center  *events.Center
	session *session.Store
	export  *Exporter
	logger  *zerolog.Logger

	pageSize       int
	maxSearchFetch int
	consoles       []models.Console
}

// HandlersConfig bundles the handler dependencies.
type HandlersConfig struct {
	Client         *upstream.Client
	Cache          *querycache.Cache
	Bus            *events.Bus
	Center         *events.Center
	Session        *session.Store
	Export         *Exporter
	Logger         *zerolog.Logger
	PageSize       int
	MaxSearchFetch int
	Consoles       []models.Console
}

func NewHandlers(cfg HandlersConfig) *Handlers {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	maxFetch := cfg.MaxSearchFetch
	if maxFetch <= 0 {
		maxFetch = models.DefaultMaxSearchFetch
	}
	return &Handlers{
		client:         cfg.Client,
		cache:          cfg.Cache,
		bus:            cfg.Bus,
		center:         cfg.Center,
		session:        cfg.Session,
		export:         cfg.Export,
		logger:         cfg.Logger,
		pageSize:       pageSize,
		maxSearchFetch: maxFetch,
		consoles:       cfg.Consoles,
	}
}

// Register mounts every dashboard route on the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/bookings", h.handleBookings)
	mux.HandleFunc("/api/v1/bookings/export", h.handleBookingsExport)
	mux.HandleFunc("/api/v1/bookings/", h.handleBookingByID)
	mux.HandleFunc("/api/v1/orders", h.handleOrders)
	mux.HandleFunc("/api/v1/orders/", h.handleOrderByID)
	mux.HandleFunc("/api/v1/users", h.handleUsers)
	mux.HandleFunc("/api/v1/users/", h.handleUserByID)
	mux.HandleFunc("/api/v1/transactions", h.handleTransactions)
	mux.HandleFunc("/api/v1/transactions/", h.handleTransactionByID)
	mux.HandleFunc("/api/v1/notifications", h.handleNotifications)
	mux.HandleFunc("/api/v1/notifications/", h.handleNotificationByID)
	mux.HandleFunc("/api/v1/analytics/revenue", h.handleRevenue)
	mux.HandleFunc("/api/v1/consoles", h.handleConsoles)
	mux.HandleFunc("/api/v1/session/token", h.handleSessionToken)
	mux.HandleFunc("/api/v1/session/profile", h.handleSessionProfile)
	mux.HandleFunc("/api/v1/session/theme", h.handleSessionTheme)
	mux.HandleFunc("/healthz", h.handleHealth)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConsoles serves the console reference list used by the booking forms.
func (h *Handlers) handleConsoles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	active := make([]models.Console, 0, len(h.consoles))
	for _, console := range h.consoles {
		if console.Active {
			active = append(active, console)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"consoles": active})
}

// parseListParams reads the list query options from the request.
func (h *Handlers) parseListParams(r *http.Request) listview.Params {
	q := r.URL.Query()
	p := listview.Params{
		Page:     atoiDefault(q.Get("page"), 1),
		PageSize: atoiDefault(q.Get("page_size"), h.pageSize),
		Status:   strings.TrimSpace(q.Get("status")),
		Month:    atoiDefault(q.Get("month"), 0),
		Year:     atoiDefault(q.Get("year"), 0),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if p.Status == "All" {
		p.Status = ""
	}
	return p.Normalize()
}

func atoiDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// idFromPath extracts the numeric id segment after the prefix; the remainder
// is the subresource ("reschedule", "refund") or empty.
func idFromPath(path, prefix string) (int64, string, error) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	idPart, sub, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid id %q", idPart)
	}
	return id, sub, nil
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request, resolve func() (TableResponse, error)) {
	table, err := resolve()
	if err != nil {
		h.fetchFailed(r.URL.Path, err)
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// --- bookings ---

func (h *Handlers) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p := h.parseListParams(r)
		h.list(w, r, func() (TableResponse, error) {
			snap, err := listview.Resolve(r.Context(), h.bookingSource(), p)
			if err != nil {
				return TableResponse{}, err
			}
			return tableResponse(snap, func(b models.Booking) string { return b.Status }), nil
		})
	case http.MethodPost:
		var input upstream.BookingInput
		if !decodeBody(w, r, &input) {
			return
		}
		booking, err := h.client.CreateBooking(r.Context(), input)
		if err != nil {
			h.mutationFailed(models.ResourceBookings, "create", 0, err)
			h.writeUpstreamError(w, err)
			return
		}
		h.mutationSucceeded(models.ResourceBookings, "create", booking.ID,
			fmt.Sprintf("booking %s created", booking.InvoiceNumber))
		writeJSON(w, http.StatusCreated, booking)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handlers) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	id, sub, err := idFromPath(r.URL.Path, "/api/v1/bookings/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		booking, err := cachedGet(r.Context(), h.cache, models.ResourceBookings, id, h.client.GetBooking)
		if err != nil {
			h.writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)

	case sub == "" && r.Method == http.MethodPut:
		var input upstream.BookingInput
		if !decodeBody(w, r, &input) {
			return
		}
		booking, err := h.client.UpdateBooking(r.Context(), id, input)
		if err != nil {
			h.mutationFailed(models.ResourceBookings, "update", id, err)
			h.writeUpstreamError(w, err)
			return
		}
		h.mutationSucceeded(models.ResourceBookings, "update", id,
			fmt.Sprintf("booking %s updated", booking.InvoiceNumber))
		writeJSON(w, http.StatusOK, booking)

	case sub == "" && r.Method == http.MethodDelete:
		if err := h.client.DeleteBooking(r.Context(), id); err != nil {
			h.mutationFailed(models.ResourceBookings, "delete", id, err)
			h.writeUpstreamError(w, err)
			return
		}
		h.mutationSucceeded(models.ResourceBookings, "delete", id,
			fmt.Sprintf("booking #%d deleted", id))
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	case sub == "reschedule" && r.Method == http.MethodPost:
		var input upstream.RescheduleInput
		if !decodeBody(w, r, &input) {
			return
		}
		booking, err := h.client.RescheduleBooking(r.Context(), id, input)
		if err != nil {
			h.mutationFailed(models.ResourceBookings, "reschedule", id, err)
			h.writeUpstreamError(w, err)
			return
		}
		h.mutationSucceeded(models.ResourceBookings, "reschedule", id,
			fmt.Sprintf("booking %s rescheduled", booking.InvoiceNumber))
		writeJSON(w, http.StatusOK, booking)

	case sub == "refund" && r.Method == http.MethodPost:
		if err := h.client.RefundBooking(r.Context(), id); err != nil {
			h.mutationFailed(models.ResourceBookings, "refund", id, err)
			h.writeUpstreamError(w, err)
			return
		}
		h.mutationSucceeded(models.ResourceBookings, "refund", id,
			fmt.Sprintf("booking #%d refunded", id))
		// A refund changes the payment record too.
		h.cache.Invalidate(querycache.TagAll(models.ResourceTransactions))
		writeJSON(w, http.StatusOK, map[string]string{"status": "refunded"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- orders ---

func (h *Handlers) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p := h.parseListParams(r)
	h.list(w, r, func() (TableResponse, error) {
		snap, err := listview.Resolve(r.Context(), h.orderSource(), p)
		if err != nil {
			return TableResponse{}, err
		}
		return tableResponse(snap, func(o models.FoodDrinkOrder) string { return o.Status }), nil
	})
}

func (h *Handlers) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	id, sub, err := idFromPath(r.URL.Path, "/api/v1/orders/")
	if err != nil || sub != "" {
		writeError(w, http.StatusBadRequest, "invalid order path")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	order, err := cachedGet(r.Context(), h.cache, models.ResourceOrders, id, h.client.GetOrder)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// --- users ---

func (h *Handlers) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p := h.parseListParams(r)
		h.list(w, r, func() (TableResponse, error) {
			snap, err := listview.Resolve(r.Context(), h.userSource(), p)
			if err != nil {
				return TableResponse{}, err
			}
			return tableResponse(snap, nil), nil
		})
	case http.MethodPost:
		var input upstream.UserInput
		if !decodeBody(w, r, &input) {
			return
		}
		user, err := h.client.CreateUser(r.Context(), input)
		if err != nil {
			h.mutationFailed(models.ResourceUsers, "create", 0, err)
			h.writeUpstreamError(w, err)
			return
		}
		h.mutationSucceeded(models.ResourceUsers, "create", user.ID,
			fmt.Sprintf("user %s created", user.Username))
		writeJSON(w, http.StatusCreated, user)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handlers) handleUserByID(w http.ResponseWriter, r *http.Request) {
	id, sub, err := idFromPath(r.URL.Path, "/api/v1/users/")
	if err != nil || sub != "" {
		writeError(w, http.StatusBadRequest, "invalid user path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := cachedGet(r.Context(), h.cache, models.ResourceUsers, id, h.client.GetUser)
		if err != nil {
			h.writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)

	case http.MethodPut:
		var input upstream.UserInput
		if !decodeBody(w, r, &input) {
			return
		}
		user, err := h.client.UpdateUser(r.Context(), id, input)
		if err != nil {
			h.mutationFailed(models.ResourceUsers, "update", id, err)
			h.writeUpstreamError(w, err)
			return
		}
		h.mutationSucceeded(models.ResourceUsers, "update", id,
			fmt.Sprintf("user %s updated", user.Username))
		writeJSON(w, http.StatusOK, user)

	case http.MethodDelete:
		if err := h.client.DeleteUser(r.Context(), id); err != nil {
			h.mutationFailed(models.ResourceUsers, "delete", id, err)
			h.writeUpstreamError(w, err)
			return
		}
		h.mutationSucceeded(models.ResourceUsers, "delete", id,
			fmt.Sprintf("user #%d deleted", id))
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- transactions ---

func (h *Handlers) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p := h.parseListParams(r)
	h.list(w, r, func() (TableResponse, error) {
		snap, err := listview.Resolve(r.Context(), h.transactionSource(), p)
		if err != nil {
			return TableResponse{}, err
		}
		return tableResponse(snap, func(t models.Transaction) string { return t.Status }), nil
	})
}

func (h *Handlers) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, sub, err := idFromPath(r.URL.Path, "/api/v1/transactions/")
	if err != nil || sub != "" {
		writeError(w, http.StatusBadRequest, "invalid transaction path")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	tx, err := cachedGet(r.Context(), h.cache, models.ResourceTransactions, id, h.client.GetTransaction)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// --- notifications ---

func (h *Handlers) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": h.center.List()})
}

func (h *Handlers) handleNotificationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/notifications/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "notification id is required")
		return
	}
	if !h.center.Dismiss(id) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// --- helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeUpstreamError maps upstream failures onto the response: missing
// records become 404, upstream validation errors keep their status and
// message, everything else is a 502.
func (h *Handlers) writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, upstream.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeError(w, status, apiErr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "upstream request failed")
}

// mutationSucceeded invalidates the mutated record's cache entries and
// publishes the success notification. Lists always refetch; sibling detail
// entries stay cached.
func (h *Handlers) mutationSucceeded(resource, action string, id int64, message string) {
	tags := []string{querycache.TagList(resource)}
	if id > 0 {
		tags = append(tags, querycache.TagID(resource, id))
	}
	h.cache.Invalidate(tags...)

	_ = h.bus.PublishJSON(events.EventMutationSucceeded, events.MutationPayload{
		Resource: resource,
		Action:   action,
		RecordID: id,
		Message:  message,
	})
}

// mutationFailed publishes the failure notification; cached data stays
// untouched.
func (h *Handlers) mutationFailed(resource, action string, id int64, err error) {
	if h.logger != nil {
		h.logger.Error().Err(err).Str("resource", resource).Str("action", action).Msg("mutation failed")
	}
	_ = h.bus.PublishJSON(events.EventMutationFailed, events.MutationPayload{
		Resource: resource,
		Action:   action,
		RecordID: id,
		Message:  fmt.Sprintf("%s %s failed: %s", resource, action, upstreamMessage(err)),
	})
}

func (h *Handlers) fetchFailed(path string, err error) {
	if h.logger != nil {
		h.logger.Error().Err(err).Str("path", path).Msg("fetch failed")
	}
	_ = h.bus.PublishJSON(events.EventFetchFailed, events.MutationPayload{
		Resource: endpointLabel(path),
		Action:   "fetch",
		Message:  fmt.Sprintf("fetch failed: %s", upstreamMessage(err)),
	})
}

func upstreamMessage(err error) string {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
