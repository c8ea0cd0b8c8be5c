package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-admin-backend/internal/activity"
)

// ListActivities serves the recent-activity feed, optionally filtered by
// type. Filtering never changes what is persisted.
func (h *Handler) ListActivities(c *gin.Context) {
	if t := c.Query("type"); t != "" {
		c.JSON(http.StatusOK, gin.H{"activities": h.activities.ByType(t)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": h.activities.Recent(activity.MaxEntries)})
}

// ClearActivities empties the feed.
func (h *Handler) ClearActivities(c *gin.Context) {
	h.activities.Clear()
	c.Status(http.StatusNoContent)
}
