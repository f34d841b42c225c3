/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging through logrus
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for a browser front end
  5. BasicAuth:  Operator credential check (everything under /api)

ROUTE GROUPS:
  /healthz                  Liveness, no auth
  /api/employees/*          Employee records and their ledgers
  /api/attendance/*         Daily attendance batches and listings
  /api/bonuses/*            Collective bonus batches
  /api/reports/*            Salary reports (json, text, xlsx, pdf)
  /api/import/*             CSV/XLSX bulk import

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Logging and auth middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	CORSOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Log))
	r.Use(middleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(BasicAuth(h.Auth, h.Log))

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)
				r.Put("/", h.UpdateEmployee)
				r.Delete("/", h.DeleteEmployee)

				r.Put("/attendance/{date}", h.RecordAttendance)
				r.Delete("/attendance/{date}", h.DeleteAttendance)
				r.Put("/performance-bonuses/{date}", h.RecordPerformanceBonus)
				r.Delete("/performance-bonuses/{date}", h.DeletePerformanceBonus)
				r.Put("/monthly-bonuses/{date}", h.RecordMonthlyBonus)
				r.Delete("/monthly-bonuses/{date}", h.DeleteMonthlyBonus)
				r.Put("/deductions/{date}", h.RecordDeduction)
				r.Delete("/deductions/{date}", h.DeleteDeduction)
				r.Put("/advances/{date}", h.RecordAdvance)
				r.Delete("/advances/{date}", h.DeleteAdvance)
				r.Put("/monthly-salaries/{year}/{month}", h.SetMonthlySalary)

				r.Get("/salary", h.GetSalary)
				r.Get("/attendance", h.GetEmployeeAttendance)
				r.Get("/payslip.pdf", h.GetPayslip)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.ListAttendance)
			r.Post("/{date}", h.RecordDailyAttendance)
		})

		r.Post("/bonuses/{date}", h.RecordCollectiveBonus)

		r.Get("/reports/salaries", h.SalaryReport)

		r.Route("/import", func(r chi.Router) {
			r.Post("/employees", h.ImportEmployees)
			r.Post("/attendance/{date}", h.ImportAttendance)
		})
	})

	return r
}
