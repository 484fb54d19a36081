package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/hrdesk-be/internal/api/handlers"
	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/logger"
	"github.com/isdelr/hrdesk-be/internal/services"
	"github.com/isdelr/hrdesk-be/internal/websocket"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Users       *services.UserService
	Departments services.DepartmentServiceProvider
	Employees   services.EmployeeServiceProvider
	Reports     services.ReportServiceProvider
	Events      services.EventServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, svc Services, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(svc.Users)
	departmentHandler := handlers.NewDepartmentHandler(svc.Departments)
	employeeHandler := handlers.NewEmployeeHandler(svc.Employees)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	eventHandler := handlers.NewEventHandler(svc.Events)
	wsHandler := handlers.NewWebSocketHandler(hub, allowedOrigins)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)

		// Browsers cannot set headers on a websocket upgrade, so the token may
		// also arrive as a query parameter here.
		r.With(auth.Middleware(svc.Users, true)).Get("/ws", wsHandler.Serve)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(svc.Users, false))

			r.Get("/me", userHandler.GetMe)
			r.Delete("/me", userHandler.DeleteMe)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.GetAll)
				r.Post("/", employeeHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.Get)
					r.Put("/", employeeHandler.Update)
					r.Delete("/", employeeHandler.Delete)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", departmentHandler.GetAll)
				r.Post("/", departmentHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", departmentHandler.Get)
					r.Put("/", departmentHandler.Update)
					r.Delete("/", departmentHandler.Delete)
				})
			})

			r.Route("/reports/employee-departments", func(r chi.Router) {
				r.Get("/", reportHandler.EmployeeDepartments)
				r.Get("/csv", reportHandler.CSV)
				r.Get("/html", reportHandler.HTML)
			})

			r.Get("/events", eventHandler.GetRecent)
		})
	})

	return r
}
