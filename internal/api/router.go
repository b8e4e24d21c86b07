package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"plantcare-backend/config"
	"plantcare-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, handler *Handler) *gin.Engine {
	r := gin.Default()

	// Initialize middleware
	// Rate limit: 10 requests per second with a burst of 5 unless configured.
	limit := rate.Limit(10)
	ipHeader := ""
	if cfg != nil {
		if cfg.RateLimitPerSec > 0 {
			limit = rate.Limit(cfg.RateLimitPerSec)
		}
		ipHeader = cfg.RequestIPHeader
	}
	rateLimiter := mw.RateLimiter(limit, 5, ipHeader)

	// Cache: 5 minute default expiration, cleaned up every 10 minutes
	ttl := 5 * time.Minute
	if cfg != nil && cfg.CacheTTLSeconds > 0 {
		ttl = time.Duration(cfg.CacheTTLSeconds) * time.Second
	}
	cacheStore := cache.New(ttl, 10*time.Minute)
	caching := mw.Cache(cacheStore, ttl)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Catalog
		api.GET("/plants", caching, handler.ListPlants)
		api.GET("/plants/:name", caching, handler.GetPlant)
		api.POST("/plants", handler.CreatePlant)
		api.DELETE("/plants/:id", handler.DeletePlant)

		// Watering schedules
		api.POST("/watering-schedule", handler.ComputeWateringSchedule)
		api.POST("/watering-events", handler.RecordWatering)
		api.GET("/users/plants", handler.ListUserPlantsWithSchedule)
		api.DELETE("/users/plants/:id", handler.DeleteUserPlant)

		// Push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		// Backfill administration
		api.POST("/admin/ingestion/run", handler.RunIngestion)
		api.GET("/admin/ingestion/status", handler.IngestionStatus)
		api.POST("/admin/ingestion/reset", handler.ResetIngestion)
	}

	return r
}
