package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shutterdesk/shutterdesk/internal/albums"
	"github.com/shutterdesk/shutterdesk/internal/auth"
	"github.com/shutterdesk/shutterdesk/internal/categories"
	"github.com/shutterdesk/shutterdesk/internal/clients"
	"github.com/shutterdesk/shutterdesk/internal/instagram"
	"github.com/shutterdesk/shutterdesk/internal/observability"
	"github.com/shutterdesk/shutterdesk/internal/photos"
	"github.com/shutterdesk/shutterdesk/internal/sessions"
	"github.com/shutterdesk/shutterdesk/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	UsersHandler      *users.Handler
	SessionsHandler   *sessions.Handler
	PhotosHandler     *photos.Handler
	ClientsHandler    *clients.Handler
	CategoriesHandler *categories.Handler
	AlbumsHandler     *albums.Handler
	InstagramHandler  *instagram.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with platform defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/sessions", params.SessionsHandler.MountRoutes)
		r.Route("/photos", params.PhotosHandler.MountRoutes)
		r.Route("/clients", params.ClientsHandler.MountRoutes)
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
		r.Route("/albums", params.AlbumsHandler.MountRoutes)
		r.Route("/instagram", params.InstagramHandler.MountRoutes)

		// Unauthenticated shared album access.
		r.Route("/shared", params.AlbumsHandler.MountSharedRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.Config != nil && params.Config.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(params.Config.UploadDir)))
		r.Handle("/uploads/*", uploadCacheHandler(fileServer))
	}

	return r
}

// uploadCacheHandler wraps the upload file server with Cache-Control headers.
func uploadCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
