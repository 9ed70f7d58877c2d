package upstream

import (
	"context"

	"rentdash/internal/models"
	"rentdash/internal/transform"
)

// ListOrders fetches one page of food & drink orders.
func (c *Client) ListOrders(ctx context.Context, p ListParams) ([]models.FoodDrinkOrder, models.Pagination, error) {
	return listResource(ctx, c, models.ResourceOrders, "/api/v1/orders", p, transform.Orders)
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, id int64) (models.FoodDrinkOrder, error) {
	return getResource(ctx, c, models.ResourceOrders, "/api/v1/orders", id, transform.Order)
}
