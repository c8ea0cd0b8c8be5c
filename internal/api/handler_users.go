package api

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"booking-admin-backend/internal/list"
	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/upstream"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type userRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (r *userRequest) validate() string {
	if !emailRe.MatchString(r.Email) {
		return "invalid email address"
	}
	// STAFF is a legacy role: shown when the backend sends it, never
	// writable from here.
	if r.Role != model.RoleUser && r.Role != model.RoleAdmin {
		return "role must be USER or ADMIN"
	}
	return ""
}

func userSearchFields(u model.User) []string {
	return []string{u.Email, u.FullName, u.Role}
}

// ListUsers serves the cached user list, filtered and paginated client-side
// for instant search.
func (h *Handler) ListUsers(c *gin.Context) {
	page, size, search := pageParams(c, 10)

	filtered := list.Filter(h.store.Users(), search, userSearchFields)
	current := list.ClampPage(page, totalPages(filtered, size))
	items, pages := list.Paginate(filtered, current, size)

	c.JSON(http.StatusOK, gin.H{
		"users":         items,
		"totalPages":    pages,
		"totalElements": len(filtered),
		"currentPage":   current,
	})
}

// GetUserStats serves the cached aggregate counts.
func (h *Handler) GetUserStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

// CreateUser creates a user upstream and pushes it into the shared cache.
func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	created, err := h.client.CreateUser(c.Request.Context(), upstream.UserPayload{
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
	})
	if err != nil {
		abortUpstream(c, err)
		return
	}

	h.store.SetUsers(append([]model.User{created}, h.store.Users()...))
	h.record(model.ActivityTypeUser, model.ActivityActionAdd, created.Email, "user created")
	go h.store.LoadStats(context.Background())

	c.JSON(http.StatusCreated, created)
}

// UpdateUser updates a user by mutation key (googleId when present, numeric
// id otherwise).
func (h *Handler) UpdateUser(c *gin.Context) {
	key := c.Param("id")

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	updated, err := h.client.UpdateUser(c.Request.Context(), key, upstream.UserPayload{
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
	})
	if err != nil {
		abortUpstream(c, err)
		return
	}

	users := h.store.Users()
	for i := range users {
		if users[i].MutationKey() == key {
			users[i] = updated
			break
		}
	}
	h.store.SetUsers(users)
	h.record(model.ActivityTypeUser, model.ActivityActionUpdate, updated.Email, "user updated")
	go h.store.LoadStats(context.Background())

	c.JSON(http.StatusOK, updated)
}

// DeleteUser deletes a user by mutation key.
func (h *Handler) DeleteUser(c *gin.Context) {
	key := c.Param("id")

	if err := h.client.DeleteUser(c.Request.Context(), key); err != nil {
		abortUpstream(c, err)
		return
	}

	var removedEmail string
	users := h.store.Users()
	next := users[:0]
	for _, u := range users {
		if u.MutationKey() == key {
			removedEmail = u.Email
			continue
		}
		next = append(next, u)
	}
	h.store.SetUsers(next)
	if removedEmail == "" {
		removedEmail = key
	}
	h.record(model.ActivityTypeUser, model.ActivityActionDelete, removedEmail, "user deleted")
	go h.store.LoadStats(context.Background())

	c.Status(http.StatusNoContent)
}

// totalPages computes the page count a list would paginate into.
func totalPages[T any](items []T, size int) int {
	_, pages := list.Paginate(items, 0, size)
	return pages
}
