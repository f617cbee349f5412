package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/metrics"
	"github.com/BuzzLyutic/taskshare-api/internal/service"
	"github.com/BuzzLyutic/taskshare-api/pkg/respond"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs to serve the API.
type Deps struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Tasks    *service.TaskService
	Projects *service.ProjectService
	Shares   *service.ShareService

	DB          Pinger
	Metrics     *metrics.Registry
	AuthLimiter *RateLimiter
	Logger      *zap.Logger

	// ExposeMetrics mounts GET /metrics. Counters are recorded either way.
	ExposeMetrics bool
}

func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.Auth, d.Logger)
	userHandler := NewUserHandler(d.Users, d.Logger)
	taskHandler := NewTaskHandler(d.Tasks, d.Logger)
	projectHandler := NewProjectHandler(d.Projects, d.Logger)
	shareHandler := NewShareHandler(d.Shares, d.Metrics, d.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(d.Metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			d.Logger.Warn("health check failed", zap.Error(err))
			respond.JSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.ExposeMetrics {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter.Middleware)
			}
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(d.Auth, d.Logger))

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/stats", taskHandler.Stats)
				r.Get("/{id}", taskHandler.Get)
				r.Patch("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)
				r.Get("/share/requests", shareHandler.Pending)
				r.Patch("/share/{requestId}", shareHandler.Resolve)
				r.Get("/{id}", projectHandler.Get)
				r.Patch("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)
				r.Post("/{id}/share", shareHandler.Share)
				r.Delete("/{id}/share/{userId}", shareHandler.RemoveMember)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Patch("/{id}", userHandler.Update)
			})
		})
	})

	return r
}
