package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/abrezinsky/auctiondesk/internal/models"
)

// SocketPath is where observers connect for broadcasts
const SocketPath = "/ws/" + models.ChannelName

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	if len(h.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: h.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)
	}

	// Probes
	r.Get("/healthz", h.Health.LivenessHandler())
	r.Get("/readyz", h.Health.ReadinessHandler())

	// Broadcast channel
	if h.Hub != nil {
		r.Get(SocketPath, h.Hub.ServeWs)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Static files (served from embedded filesystem)
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
		if h.PhotosDir != "" {
			r.Handle("/photos/*", http.StripPrefix("/photos/", http.FileServer(http.Dir(h.PhotosDir))))
		}

		// Pages
		r.Get("/", h.handleIndex)
		r.Get("/controller", h.handleControllerPage)
		r.Get("/display", h.handleDisplayPage)

		// Roster
		r.Get("/api/import", h.handleImport)

		// Observer API
		r.Get("/api/state", h.handleGetState)
		r.Get("/api/queue", h.handleGetQueue)
		r.Get("/api/snapshot", h.handleGetSnapshot)
		r.Get("/api/display/view", h.handleGetDisplayView)

		// Controller API
		r.Route("/api/controller", func(r chi.Router) {
			r.Post("/select", h.handleSelect)
			r.Post("/override", h.handleOverride)
			r.Post("/raise", h.handleRaise)
			r.Post("/finalize", h.handleFinalize)
			r.Post("/award", h.handleAward)
			r.Post("/unsold", h.handleUnsold)
			r.Post("/reset", h.handleReset)
			r.Get("/report", h.handleReport)
			r.Get("/export", h.handleExport)
			r.Get("/display-qr", h.handleDisplayQR)
		})

		// Settings
		r.Get("/api/settings", h.handleGetSettings)
		r.Put("/api/settings", h.handleUpdateSettings)
		r.Post("/api/settings", h.handleUpdateSettings)
	})

	return r
}
