package upstream

import (
	"context"

	"rentdash/internal/models"
	"rentdash/internal/transform"
)

// ListTransactions fetches one page of payment records.
func (c *Client) ListTransactions(ctx context.Context, p ListParams) ([]models.Transaction, models.Pagination, error) {
	return listResource(ctx, c, models.ResourceTransactions, "/api/v1/transactions", p, transform.Transactions)
}

// GetTransaction fetches one payment record by id.
func (c *Client) GetTransaction(ctx context.Context, id int64) (models.Transaction, error) {
	return getResource(ctx, c, models.ResourceTransactions, "/api/v1/transactions", id, transform.Transaction)
}
