package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"booking-admin-backend/config"
	"booking-admin-backend/internal/mw"
)

// NewRouter creates and configures the gateway's Gin router.
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Read caching is keyed by the store's version tag, so any write-through
	// invalidates cached listings immediately. The TTL only bounds staleness
	// against out-of-band upstream changes.
	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl, h.store.VersionTag)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/status", h.Status)
		api.POST("/reload/:resource", h.Reload)

		api.GET("/users", caching, h.ListUsers)
		api.GET("/users/stats", caching, h.GetUserStats)
		api.POST("/users", h.CreateUser)
		api.PUT("/users/:id", h.UpdateUser)
		api.DELETE("/users/:id", h.DeleteUser)

		api.GET("/devices", caching, h.ListDevices)
		api.GET("/device-types", caching, h.ListDeviceTypes)
		api.POST("/devices", h.CreateDevice)
		api.PUT("/devices/:id", h.UpdateDevice)
		api.DELETE("/devices/:id", h.DeleteDevice)

		api.GET("/rooms", caching, h.ListRooms)
		api.POST("/rooms", h.CreateRoom)
		api.PUT("/rooms/:id", h.UpdateRoom)
		api.DELETE("/rooms/:id", h.DeleteRoom)

		api.GET("/meetings", caching, h.ListMeetings)
		api.DELETE("/meetings/:id", h.CancelMeeting)

		api.GET("/activities", h.ListActivities)
		api.DELETE("/activities", h.ClearActivities)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
