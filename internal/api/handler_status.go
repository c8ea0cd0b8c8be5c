package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-admin-backend/internal/logs"
)

var reloadable = map[string]bool{
	"users":    true,
	"stats":    true,
	"devices":  true,
	"rooms":    true,
	"meetings": true,
}

// Status reports whether the initial preload is still in flight and the
// per-resource load states. The admin UI polls this while showing its
// splash screen.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"preloading": h.store.IsPreloading(),
		"resources":  h.store.States(),
	})
}

// Reload forces a refresh of a single cached resource from upstream.
// The reload runs detached from the request so a slow upstream cannot
// hold the connection open.
func (h *Handler) Reload(c *gin.Context) {
	name := c.Param("resource")
	if !reloadable[name] {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown resource: " + name})
		return
	}
	go func() {
		if err := h.store.Reload(context.Background(), name); err != nil {
			logs.Logger.Warnf("manual reload of %s failed: %v", name, err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"reloading": name})
}
