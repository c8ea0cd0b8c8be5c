package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"booking-admin-backend/internal/model"
)

// UsersPage mirrors the server-paged users response. Unlike the device and
// room endpoints, the admin user endpoints are not wrapped in an envelope.
type UsersPage struct {
	Users         []model.User `json:"users"`
	TotalPages    int          `json:"totalPages"`
	TotalElements int64        `json:"totalElements"`
	CurrentPage   int          `json:"currentPage"`
}

// UserPayload is the wire shape for user create/update requests.
type UserPayload struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// ListUsers fetches one server-side page of users.
func (c *Client) ListUsers(ctx context.Context, page, size int, search string) (UsersPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortBy", "createdAt")
	q.Set("sortDir", "desc")
	if search != "" {
		q.Set("search", search)
	}

	var out UsersPage
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", q, nil, &out); err != nil {
		return UsersPage{}, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// UserStats fetches the aggregate user counts.
func (c *Client) UserStats(ctx context.Context) (model.UserStats, error) {
	var out model.UserStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/users/stats", nil, nil, &out); err != nil {
		return model.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	return out, nil
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, p UserPayload) (model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPost, "/api/admin/users", nil, p, &out); err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return out, nil
}

// UpdateUser updates a user. The key is the user's mutation identity:
// googleId when present, numeric id otherwise (see model.User.MutationKey).
func (c *Client) UpdateUser(ctx context.Context, key string, p UserPayload) (model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPut, "/api/admin/users/"+url.PathEscape(key), nil, p, &out); err != nil {
		return model.User{}, fmt.Errorf("update user %s: %w", key, err)
	}
	return out, nil
}

// DeleteUser deletes a user by mutation key.
func (c *Client) DeleteUser(ctx context.Context, key string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(key), nil, nil, nil); err != nil {
		return fmt.Errorf("delete user %s: %w", key, err)
	}
	return nil
}
