package upstream

import (
	"context"
	"fmt"
	"net/http"

	"rentdash/internal/models"
	"rentdash/internal/transform"
)

// ListUsers fetches one page of accounts.
func (c *Client) ListUsers(ctx context.Context, p ListParams) ([]models.User, models.Pagination, error) {
	return listResource(ctx, c, models.ResourceUsers, "/api/v1/users", p, transform.Users)
}

// GetUser fetches one account by id.
func (c *Client) GetUser(ctx context.Context, id int64) (models.User, error) {
	return getResource(ctx, c, models.ResourceUsers, "/api/v1/users", id, transform.User)
}

// UserInput is the payload for account create/update calls.
type UserInput struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
	Password string `json:"password,omitempty"`
}

// CreateUser creates an account and returns the stored record.
func (c *Client) CreateUser(ctx context.Context, input UserInput) (models.User, error) {
	var wrap struct {
		Data transform.RawUser `json:"data"`
	}
	if err := c.mutate(ctx, http.MethodPost, "/api/v1/users", input, &wrap); err != nil {
		return models.User{}, err
	}
	return transform.User(wrap.Data), nil
}

// UpdateUser updates an account and returns the stored record.
func (c *Client) UpdateUser(ctx context.Context, id int64, input UserInput) (models.User, error) {
	var wrap struct {
		Data transform.RawUser `json:"data"`
	}
	path := fmt.Sprintf("/api/v1/users/%d", id)
	if err := c.mutate(ctx, http.MethodPut, path, input, &wrap); err != nil {
		return models.User{}, err
	}
	return transform.User(wrap.Data), nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", id), nil, nil)
}
