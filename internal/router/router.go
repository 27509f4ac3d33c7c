// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinelane/ticketing/internal/config"
	"github.com/cinelane/ticketing/internal/handler"
	"github.com/cinelane/ticketing/internal/middleware"
)

// Handlers bundles the catalog handlers RegisterAPI wires up. Auth
// endpoints register separately through RegisterAuth.
type Handlers struct {
	Viewers *handler.ViewerHandler
	Sellers *handler.SellerHandler
	Tickets *handler.TicketHandler
	Orders  *handler.OrderHandler
	Images  *handler.ImageHandler
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers to
// verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login,
// refresh and logout are open; /v1/auth/me and /v1/auth/logout-all
// require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/logout-all", a.LogoutAll, middleware.JWTAuth(jwtSecret))
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterAPI registers the catalog endpoints. Reads are public and
// cached when Redis is available; every mutation sits behind JWT auth,
// and image writes are additionally rate limited. Image retrieval stays
// outside the cache group: nothing invalidates cache entries on upload
// or delete, so cached avatar bytes could go stale for a full TTL. The
// orders /filter route is registered before /:id so Echo does not treat
// "filter" as an id.
func RegisterAPI(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/v1/viewers/:id/image", h.Images.GetViewer)
	e.GET("/v1/sellers/:id/image", h.Images.GetSeller)

	pub := e.Group("/v1")
	if rdb != nil {
		pub.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}
	pub.GET("/viewers", h.Viewers.List)
	pub.GET("/viewers/:id", h.Viewers.Get)
	pub.GET("/sellers", h.Sellers.List)
	pub.GET("/sellers/:id", h.Sellers.Get)
	pub.GET("/tickets", h.Tickets.List)
	pub.GET("/tickets/:id", h.Tickets.Get)
	pub.GET("/orders", h.Orders.List)
	pub.GET("/orders/filter", h.Orders.Filter)
	pub.GET("/orders/:id", h.Orders.Get)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STAFF"))

	auth.POST("/viewers", h.Viewers.Create)
	auth.PUT("/viewers/:id", h.Viewers.Update)
	auth.DELETE("/viewers/:id", h.Viewers.Delete)
	auth.POST("/sellers", h.Sellers.Create)
	auth.PUT("/sellers/:id", h.Sellers.Update)
	auth.DELETE("/sellers/:id", h.Sellers.Delete)
	auth.POST("/tickets", h.Tickets.Create)
	auth.PUT("/tickets/:id", h.Tickets.Update)
	auth.DELETE("/tickets/:id", h.Tickets.Delete)
	auth.POST("/orders", h.Orders.Create)
	auth.PUT("/orders/:id", h.Orders.Update)
	auth.DELETE("/orders/:id", h.Orders.Delete)

	img := e.Group("/v1")
	img.Use(middleware.JWTAuth(cfg.JWTSecret))
	img.Use(middleware.RequireRole("ADMIN", "STAFF"))
	if rdb != nil {
		img.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}
	img.POST("/viewers/:id/image", h.Images.UploadViewer)
	img.PUT("/viewers/:id/image", h.Images.ReplaceViewer)
	img.DELETE("/viewers/:id/image", h.Images.DeleteViewer)
	img.POST("/sellers/:id/image", h.Images.UploadSeller)
	img.PUT("/sellers/:id/image", h.Images.ReplaceSeller)
	img.DELETE("/sellers/:id/image", h.Images.DeleteSeller)
}
