/*
server.go - Router assembly

PURPOSE:
  Mounts the handlers under /api with the shared middleware stack: CORS for
  the browser frontend, structured request logging, panic recovery, and a
  heartbeat for liveness probes.
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter wires the full HTTP surface. allowedOrigins feeds the CORS
// middleware; an empty list keeps browsers out entirely.
func NewRouter(h *Handler, logger *slog.Logger, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)
				r.Put("/", h.UpdateEmployee)
				r.Delete("/", h.DeleteEmployee)
				r.Get("/summary", h.GetEmployeeSummary)
			})
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Put("/{id}", h.UpdateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		r.Route("/leave-records", func(r chi.Router) {
			r.Get("/", h.ListLeaveRecords)
			r.Post("/", h.CreateLeaveRecord)
			r.Post("/batch", h.SubmitLeaveBatch)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetLeaveRecord)
				r.Put("/", h.UpdateLeaveRecord)
				r.Delete("/", h.DeleteLeaveRecord)
			})
		})

		r.Get("/reports/attendance", h.GetAttendanceReport)
	})

	return r
}
