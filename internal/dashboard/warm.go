package dashboard

import (
	"context"
	"errors"

	"rentdash/internal/models"
	"rentdash/internal/querycache"
	"rentdash/internal/upstream"
)

// RefreshLists drops the cached list pages and refetches the first page of
// each resource. The background poller calls this on its interval so the
// tables stay fresh between user interactions; in-flight user requests for
// the same pages are joined, not duplicated.
func (h *Handlers) RefreshLists(ctx context.Context) error {
	h.cache.Invalidate(
		querycache.TagList(models.ResourceBookings),
		querycache.TagList(models.ResourceOrders),
		querycache.TagList(models.ResourceUsers),
		querycache.TagList(models.ResourceTransactions),
	)

	lp := upstream.ListParams{Page: 1, PerPage: h.pageSize}

	var errs []error
	if _, _, err := cachedList(ctx, h.cache, models.ResourceBookings, lp, h.client.ListBookings); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := cachedList(ctx, h.cache, models.ResourceOrders, lp, h.client.ListOrders); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := cachedList(ctx, h.cache, models.ResourceUsers, lp, h.client.ListUsers); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := cachedList(ctx, h.cache, models.ResourceTransactions, lp, h.client.ListTransactions); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
