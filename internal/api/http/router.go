package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loga115/ticketflow/internal/api/http/handlers"
	"github.com/loga115/ticketflow/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	Employees      *handlers.EmployeesHandler
	TimeLogs       *handlers.TimeLogsHandler
	TimeAnalytics  *handlers.TimeAnalyticsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Static segments are registered before
// parameterized ones so fiber matches them first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/stats/overview", cfg.Tickets.StatsOverview)
	tickets.Get("/stats/by-category", cfg.Tickets.StatsByCategory)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Post("/:id/assign", cfg.Tickets.Assign)
	tickets.Post("/:id/unassign", cfg.Tickets.Unassign)
	tickets.Get("/:id/recommend-employees", cfg.Tickets.Recommend)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Patch("/:id/comments/:commentId", cfg.Tickets.UpdateComment)
	tickets.Delete("/:id/comments/:commentId", cfg.Tickets.DeleteComment)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)

	categories := api.Group("/categories")
	categories.Post("", cfg.Categories.Create)
	categories.Get("", cfg.Categories.List)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Patch("/:id", cfg.Categories.Update)
	categories.Delete("/:id", cfg.Categories.Delete)

	employees := api.Group("/employees")
	employees.Post("", cfg.Employees.Create)
	employees.Get("", cfg.Employees.List)
	employees.Get("/workloads", cfg.Employees.Workloads)
	employees.Get("/specializations", cfg.Employees.Specializations)
	employees.Get("/by-specialization/:name", cfg.Employees.BySpecialization)
	employees.Get("/departments/list", cfg.Employees.Departments)
	employees.Get("/departments/stats", cfg.Employees.DepartmentStats)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Patch("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)
	employees.Get("/:id/tickets", cfg.Employees.Tickets)
	employees.Get("/:id/workload", cfg.Employees.Workload)
	employees.Get("/:id/performance", cfg.Employees.Performance)

	timeGroup := api.Group("/time")
	timeGroup.Post("/logs", cfg.TimeLogs.Create)
	timeGroup.Post("/logs/batch", cfg.TimeLogs.CreateBatch)
	timeGroup.Get("/logs", cfg.TimeLogs.List)
	timeGroup.Get("/logs/:id", cfg.TimeLogs.Get)
	timeGroup.Patch("/logs/:id", cfg.TimeLogs.Update)
	timeGroup.Delete("/logs/:id", cfg.TimeLogs.Delete)
	timeGroup.Get("/review/employee/:id", cfg.TimeAnalytics.ReviewEmployee)
	timeGroup.Get("/review/ticket/:id", cfg.TimeAnalytics.ReviewTicket)
	timeGroup.Get("/stats/summary", cfg.TimeAnalytics.StatsSummary)
	timeGroup.Get("/stats/trends", cfg.TimeAnalytics.StatsTrends)
}
