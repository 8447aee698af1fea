// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fredmak/hostel-manager/internal/handler"
	"github.com/fredmak/hostel-manager/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: the health check used
// by load balancers and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterPublic registers the unauthenticated endpoints. The read-only
// pages sit behind the response cache; the application form sits behind the
// rate limiter instead, a cached POST would swallow submissions.
func RegisterPublic(e *echo.Echo, home *handler.HomeHandler, media *handler.MediaHandler, apps *handler.ApplicationHandler, cache echo.MiddlewareFunc, limit echo.MiddlewareFunc) {
	e.GET("/v1/home", home.Home, cache)
	e.GET("/v1/gallery", media.Gallery, cache)
	e.POST("/v1/applications", apps.Submit, limit)
}

// RegisterAuth registers the manager login. There is no register or refresh
// endpoint; accounts are seeded and tokens are simply re-obtained by logging
// in again.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/v1/auth/login", a.Login)
}

// AdminHandlers bundles everything the admin surface needs.
type AdminHandlers struct {
	Auth        *handler.AuthHandler
	Rooms       *handler.RoomHandler
	Residents   *handler.ResidentHandler
	Occupancies *handler.OccupancyHandler
	Payments    *handler.PaymentHandler
	Apps        *handler.ApplicationHandler
	Maintenance *handler.MaintenanceHandler
	Media       *handler.MediaHandler
	Settings    *handler.SettingsHandler
	Setup       *handler.SetupHandler
}

// RegisterAdmin registers the management surface under /v1/admin. Every
// route requires a valid access token carrying the MANAGER role.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("MANAGER"))

	g.GET("/me", h.Auth.Me)

	g.GET("/rooms", h.Rooms.ListBoard)
	g.POST("/rooms", h.Rooms.Create)
	g.PATCH("/rooms/:id", h.Rooms.Update)

	g.GET("/residents", h.Residents.List)
	g.POST("/residents", h.Residents.Create)
	g.PATCH("/residents/:id", h.Residents.Update)
	g.POST("/residents/bulk", h.Residents.CreateBulk)
	g.POST("/residents/import", h.Residents.Import)
	g.POST("/residents/delete", h.Residents.DeleteBulk)
	g.GET("/residents/:id/occupancies", h.Occupancies.ListByResident)
	g.GET("/residents/:id/payments", h.Payments.ListByResident)

	g.POST("/occupancies", h.Occupancies.Assign)
	g.POST("/occupancies/bulk", h.Occupancies.BulkAssign)
	g.POST("/occupancies/:id/end", h.Occupancies.End)

	g.POST("/payments", h.Payments.Record)
	g.GET("/payments/dashboard", h.Payments.FeesDashboard)

	g.GET("/applications", h.Apps.List)
	g.POST("/applications/:id/review", h.Apps.Review)

	g.GET("/maintenance", h.Maintenance.List)
	g.POST("/maintenance", h.Maintenance.Create)
	g.POST("/maintenance/:id/status", h.Maintenance.UpdateStatus)
	g.GET("/maintenance/setup", h.Maintenance.Setup)
	g.POST("/maintenance/setup", h.Maintenance.Setup)

	g.GET("/media", h.Media.List)
	g.POST("/media", h.Media.Upload)
	g.DELETE("/media/:id", h.Media.Delete)
	g.POST("/media/setup", h.Media.Setup)

	g.GET("/settings", h.Settings.Get)
	g.PUT("/settings", h.Settings.Update)

	g.POST("/setup", h.Setup.Seed)
}
