package dashboard

import (
	"context"
	"time"

	"rentdash/internal/listview"
	"rentdash/internal/models"
	"rentdash/internal/querycache"
	"rentdash/internal/upstream"
)

// paged bundles one fetched page for cache storage.
type paged[T any] struct {
	Rows []T
	Pg   models.Pagination
}

// cachedList routes a page fetch through the query cache. List entries carry
// the collection-wide tag and the list tag, so any mutation of the resource
// drops them.
func cachedList[T any](
	ctx context.Context,
	cache *querycache.Cache,
	resource string,
	lp upstream.ListParams,
	fetch func(context.Context, upstream.ListParams) ([]T, models.Pagination, error),
) ([]T, models.Pagination, error) {
	key := querycache.Key(resource, lp.Args())
	tags := []string{querycache.TagAll(resource), querycache.TagList(resource)}

	result, err := querycache.Fetch(ctx, cache, key, tags, func(ctx context.Context) (paged[T], error) {
		rows, pg, err := fetch(ctx, lp)
		if err != nil {
			return paged[T]{}, err
		}
		return paged[T]{Rows: rows, Pg: pg}, nil
	})
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return result.Rows, result.Pg, nil
}

// cachedGet routes a detail fetch through the query cache. Detail entries
// carry the collection-wide tag and their own record tag only, so mutations
// of sibling records leave them alone.
func cachedGet[T any](
	ctx context.Context,
	cache *querycache.Cache,
	resource string,
	id int64,
	fetch func(context.Context, int64) (T, error),
) (T, error) {
	key := querycache.TagID(resource, id)
	tags := []string{querycache.TagAll(resource), key}

	return querycache.Fetch(ctx, cache, key, tags, func(ctx context.Context) (T, error) {
		return fetch(ctx, id)
	})
}

func toListParams(p listview.Params) upstream.ListParams {
	return upstream.ListParams{
		Page:    p.Page,
		PerPage: p.PageSize,
		Status:  p.Status,
		Month:   p.Month,
		Year:    p.Year,
		Sort:    p.Sort,
	}
}

func (h *Handlers) bookingSource() listview.Source[models.Booking] {
	return listview.Source[models.Booking]{
		FetchPage: func(ctx context.Context, p listview.Params) ([]models.Booking, models.Pagination, error) {
			return cachedList(ctx, h.cache, models.ResourceBookings, toListParams(p), h.client.ListBookings)
		},
		FetchAll: func(ctx context.Context, p listview.Params) ([]models.Booking, error) {
			rows, _, err := cachedList(ctx, h.cache, models.ResourceBookings,
				toListParams(p).All(h.maxSearchFetch), h.client.ListBookings)
			return rows, err
		},
		Matches: func(b models.Booking, term string) bool {
			return listview.ContainsFold(b.CustomerName, term) ||
				listview.ContainsFold(b.InvoiceNumber, term) ||
				listview.ContainsFold(b.Phone, term) ||
				listview.ContainsFold(b.UnitName, term)
		},
		SortKey: func(b models.Booking) time.Time { return b.StartAt },
	}
}

func (h *Handlers) orderSource() listview.Source[models.FoodDrinkOrder] {
	return listview.Source[models.FoodDrinkOrder]{
		FetchPage: func(ctx context.Context, p listview.Params) ([]models.FoodDrinkOrder, models.Pagination, error) {
			return cachedList(ctx, h.cache, models.ResourceOrders, toListParams(p), h.client.ListOrders)
		},
		FetchAll: func(ctx context.Context, p listview.Params) ([]models.FoodDrinkOrder, error) {
			rows, _, err := cachedList(ctx, h.cache, models.ResourceOrders,
				toListParams(p).All(h.maxSearchFetch), h.client.ListOrders)
			return rows, err
		},
		Matches: func(o models.FoodDrinkOrder, term string) bool {
			return listview.ContainsFold(o.CustomerName, term) ||
				listview.ContainsFold(o.InvoiceNumber, term)
		},
		SortKey: func(o models.FoodDrinkOrder) time.Time { return o.CreatedAt },
	}
}

func (h *Handlers) userSource() listview.Source[models.User] {
	return listview.Source[models.User]{
		FetchPage: func(ctx context.Context, p listview.Params) ([]models.User, models.Pagination, error) {
			return cachedList(ctx, h.cache, models.ResourceUsers, toListParams(p), h.client.ListUsers)
		},
		FetchAll: func(ctx context.Context, p listview.Params) ([]models.User, error) {
			rows, _, err := cachedList(ctx, h.cache, models.ResourceUsers,
				toListParams(p).All(h.maxSearchFetch), h.client.ListUsers)
			return rows, err
		},
		Matches: func(u models.User, term string) bool {
			return listview.ContainsFold(u.Name, term) ||
				listview.ContainsFold(u.Username, term) ||
				listview.ContainsFold(u.Email, term) ||
				listview.ContainsFold(u.Phone, term)
		},
		SortKey: func(u models.User) time.Time { return u.CreatedAt },
	}
}

func (h *Handlers) transactionSource() listview.Source[models.Transaction] {
	return listview.Source[models.Transaction]{
		FetchPage: func(ctx context.Context, p listview.Params) ([]models.Transaction, models.Pagination, error) {
			return cachedList(ctx, h.cache, models.ResourceTransactions, toListParams(p), h.client.ListTransactions)
		},
		FetchAll: func(ctx context.Context, p listview.Params) ([]models.Transaction, error) {
			rows, _, err := cachedList(ctx, h.cache, models.ResourceTransactions,
				toListParams(p).All(h.maxSearchFetch), h.client.ListTransactions)
			return rows, err
		},
		Matches: func(t models.Transaction, term string) bool {
			return listview.ContainsFold(t.InvoiceNumber, term) ||
				listview.ContainsFold(t.PaymentMethod, term)
		},
		SortKey: func(t models.Transaction) time.Time { return t.CreatedAt },
	}
}
