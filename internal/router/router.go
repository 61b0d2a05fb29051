package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/tajtravel/guidehire/internal/config"
	"github.com/tajtravel/guidehire/internal/handler"
	"github.com/tajtravel/guidehire/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// so load balancers can verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the requester-facing endpoints.  Everything
// here is unauthenticated — requesters identify themselves by the
// contact details in the request body — but rate limited per IP and
// route when Redis is available.  The availability read additionally
// goes through the response cache.
func RegisterPublic(e *echo.Echo, av *handler.AvailabilityHandler, hires *handler.HireHandler, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	g := e.Group("/v1", limiter)
	// Free-day listing is read-only and safe to cache briefly; every
	// reservation re-checks inside its own transaction.
	g.GET("/guides/:id/availability", av.GetAvailability, cache)
	// Direct booking commits immediately (confirmed, days held).
	g.POST("/guides/:id/hire", hires.RequestDirectHire)
	// Manual-approval path: recorded as pending, no days held yet.
	g.POST("/guides/:id/hire-requests", hires.SubmitHireRequest)
	// Hire history by requester contact.
	g.GET("/hires", hires.ListMyHires)
}

// RegisterAdmin registers the workflow endpoints used by
// administrators.  Tokens are issued by the external auth service; this
// service verifies them with the shared secret and requires the ADMIN
// role claim.
func RegisterAdmin(e *echo.Echo, admin *handler.AdminHireHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/hires/:id/approve", admin.ApproveHire)
	g.POST("/hires/:id/reject", admin.RejectHire)
	g.POST("/hires/:id/cancel", admin.CancelHire)
	g.POST("/hires/:id/complete", admin.CompleteHire)
	g.POST("/hires/:id/payment", admin.SetPaymentStatus)
	g.GET("/guides/:id/hires", admin.ListGuideHires)
}
