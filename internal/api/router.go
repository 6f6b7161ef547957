package api

import (
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"plant-care-backend/config"
	"plant-care-backend/internal/mw"
	"plant-care-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg config.ServerConfig, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(mw.CORS(cfg.AllowedOrigins))

	handler := NewHandler(s, opts)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Plant reads are cached; every successful plant write flushes.
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		plants := api.Group("/plants", caching)
		plants.GET("", handler.ListPlants)
		plants.POST("", handler.CreatePlant)
		plants.GET("/:id", handler.GetPlant)
		plants.PUT("/:id", handler.UpdatePlant)
		plants.DELETE("/:id", handler.DeletePlant)

		plants.POST("/:id/water", handler.WaterPlant)
		plants.DELETE("/:id/water/:entry_id", handler.DeleteWatering)

		// Not cached: the worker pool deletes expired subscriptions behind
		// the API's back.
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", caching, handler.GetVAPIDPublicKey)
	}

	return r
}
