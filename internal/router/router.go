package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/appointment-booking/internal/config"
	"github.com/iliyamo/appointment-booking/internal/handler"
	"github.com/iliyamo/appointment-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication beyond
// the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic wires the guest-facing read endpoints, the rate-limited
// booking endpoint and the real-time event stream. The cache middleware
// covers only the two read routes; the event stream must never be
// buffered.
func RegisterPublic(
	e *echo.Echo,
	p *handler.PublicHandler,
	b *handler.BookingHandler,
	ev *handler.EventsHandler,
	rdb *redis.Client,
	cacheCfg config.CacheConfig,
	rateCfg config.RateLimitConfig,
) {
	cached := middleware.NewVersionedCache(cacheCfg, rdb)
	e.GET("/v1/calendar", p.Calendar, cached)
	e.GET("/v1/slots", p.DaySlots, cached)

	e.POST("/v1/bookings", b.Create, middleware.NewFixedWindow(rateCfg, rdb))

	e.GET("/v1/events", ev.Stream)
}

// RegisterAuth wires the admin session endpoints. Login, refresh and
// logout exchange tokens and need no session; /v1/me sits behind the
// JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterAdmin wires the slot lifecycle and back-office booking routes
// behind JWT + ADMIN role.
func RegisterAdmin(e *echo.Echo, s *handler.AdminSlotHandler, ab *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/slots", s.Create)
	g.PATCH("/slots/:id", s.UpdateTimes)
	g.DELETE("/slots/:id", s.Delete)

	g.GET("/bookings", ab.List)
	g.POST("/bookings/:id/cancel", ab.Cancel)
}
