package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"booking-admin-backend/internal/activity"
	"booking-admin-backend/internal/notification"
	"booking-admin-backend/internal/preload"
	"booking-admin-backend/internal/upstream"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      *preload.Store
	client     *upstream.Client
	activities *activity.Log
	pool       *notification.WorkerPool
	db         *gorm.DB
	webpush    *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(store *preload.Store, client *upstream.Client, activities *activity.Log,
	pool *notification.WorkerPool, db *gorm.DB, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:      store,
		client:     client,
		activities: activities,
		pool:       pool,
		db:         db,
		webpush:    webpushOptions,
	}
}

// record appends to the activity feed and hands the entry to the push pool.
func (h *Handler) record(activityType, action, itemName, details string) {
	entry := h.activities.Record(activityType, action, itemName, details)
	if h.pool != nil {
		h.pool.Dispatch(entry)
	}
}

// upstreamStatus maps an upstream error onto the status this gateway should
// answer with: the backend's own HTTP status when it produced one, 502
// otherwise.
func upstreamStatus(err error) int {
	var ue *upstream.Error
	if errors.As(err, &ue) && ue.Status >= 400 {
		return ue.Status
	}
	return http.StatusBadGateway
}

// abortUpstream converts an upstream failure into an error response.
func abortUpstream(c *gin.Context, err error) {
	c.AbortWithStatusJSON(upstreamStatus(err), gin.H{"error": err.Error()})
}

// pathID parses a numeric id path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// pageParams reads the client-side pagination query parameters.
func pageParams(c *gin.Context, defaultSize int) (page, size int, search string) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if size <= 0 {
		size = defaultSize
	}
	return page, size, c.Query("search")
}
