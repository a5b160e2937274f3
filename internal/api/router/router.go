package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"autoshop/internal/appointments"
	"autoshop/internal/booking"
	"autoshop/internal/catalog"
	httpmiddleware "autoshop/internal/http/middleware"
	"autoshop/internal/profiles"
	"autoshop/internal/vehicles"
	"autoshop/internal/workorders"
	"autoshop/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	CatalogHandler      *catalog.Handler
	BookingHandler      *booking.Handler
	AppointmentsHandler *appointments.Handler
	VehiclesHandler     *vehicles.Handler
	ProfilesHandler     *profiles.Handler
	WorkOrdersHandler   *workorders.Handler
	RoleLookup          httpmiddleware.RoleLookup
	AuthJWTSecret       string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	BookingRateLimit    *httpmiddleware.RateLimiter
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.CatalogHandler != nil {
			public.Get("/api/services", cfg.CatalogHandler.ListServices)
			public.Get("/api/services/{id}", cfg.CatalogHandler.GetService)
		}
	})

	// Authenticated endpoints
	if cfg.AuthJWTSecret != "" {
		r.Group(func(authed chi.Router) {
			authed.Use(httpmiddleware.UserJWT(cfg.AuthJWTSecret))

			if cfg.BookingHandler != nil {
				authed.Get("/api/bookings/new", cfg.BookingHandler.NewDraft)
				if cfg.BookingRateLimit != nil {
					authed.With(cfg.BookingRateLimit.Middleware).Post("/api/bookings", cfg.BookingHandler.CreateBooking)
				} else {
					authed.Post("/api/bookings", cfg.BookingHandler.CreateBooking)
				}
			}
			if cfg.AppointmentsHandler != nil {
				authed.Get("/api/appointments", cfg.AppointmentsHandler.ListMine)
				authed.Get("/api/appointments/{id}", cfg.AppointmentsHandler.GetMine)
			}
			if cfg.VehiclesHandler != nil {
				authed.Get("/api/vehicles", cfg.VehiclesHandler.ListMine)
			}
			if cfg.ProfilesHandler != nil {
				authed.Get("/api/profile", cfg.ProfilesHandler.GetMine)
				authed.Put("/api/profile", cfg.ProfilesHandler.UpdateMine)
			}
			if cfg.WorkOrdersHandler != nil {
				authed.Get("/api/workorders/{id}", cfg.WorkOrdersHandler.Track)
			}

			// Mechanic endpoints
			if cfg.WorkOrdersHandler != nil && cfg.RoleLookup != nil {
				authed.Group(func(mechanic chi.Router) {
					mechanic.Use(httpmiddleware.RequireRole(cfg.RoleLookup, profiles.RoleMechanic))
					mechanic.Get("/api/mechanic/tasks", cfg.WorkOrdersHandler.MechanicTasks)
					mechanic.Post("/api/workorders/{id}/status", cfg.WorkOrdersHandler.PostStatus)
				})
			}

			// Admin endpoints
			if cfg.RoleLookup != nil {
				authed.Group(func(admin chi.Router) {
					admin.Use(httpmiddleware.RequireRole(cfg.RoleLookup, profiles.RoleAdmin))
					if cfg.AppointmentsHandler != nil {
						admin.Get("/api/admin/appointments", cfg.AppointmentsHandler.AdminList)
						admin.Patch("/api/admin/appointments/{id}/status", cfg.AppointmentsHandler.AdminUpdateStatus)
					}
					if cfg.WorkOrdersHandler != nil {
						admin.Get("/api/admin/workorders", cfg.WorkOrdersHandler.AdminList)
						admin.Post("/api/admin/workorders", cfg.WorkOrdersHandler.AdminCreate)
						admin.Patch("/api/admin/workorders/{id}/assign", cfg.WorkOrdersHandler.AdminAssign)
					}
					if cfg.ProfilesHandler != nil {
						admin.Get("/api/admin/clients", cfg.ProfilesHandler.AdminListClients)
						admin.Patch("/api/admin/profiles/{id}/role", cfg.ProfilesHandler.AdminSetRole)
					}
				})
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
