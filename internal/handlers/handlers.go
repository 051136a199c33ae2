package handlers

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/auctiondesk/internal/display"
	"github.com/abrezinsky/auctiondesk/internal/health"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/internal/services"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// PageData holds the data passed to page templates
type PageData struct {
	Title        string
	DisplayTitle string
	Channel      string
	SocketPath   string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index      *template.Template
	Controller *template.Template
	Display    *template.Template
}

// SnapshotReader reads the persisted snapshot slot without changing it
type SnapshotReader interface {
	Latest(ctx context.Context) (*models.AuctionState, bool, error)
}

// DisplayViewer renders the audience view
type DisplayViewer interface {
	View() display.View
}

// SocketServer upgrades observer connections
type SocketServer interface {
	ServeWs(w http.ResponseWriter, r *http.Request)
}

// Deps are the services the handlers call into
type Deps struct {
	Auction  services.AuctionServicer
	Settings services.SettingsServicer
	Export   services.ExportServicer
	QR       services.QRServicer
	Snapshot SnapshotReader
	Display  DisplayViewer
	Hub      SocketServer
	Health   *health.Handler
	Log      logger.Logger
	// PhotosDir serves player photos under /photos/ when set
	PhotosDir string
	// AllowedOrigins enables CORS for the API and socket when non-empty
	AllowedOrigins []string
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Deps
	templates    *Templates
	staticServer http.Handler
}

// New creates a new Handlers instance with all dependencies
func New(deps Deps, templatesFS fs.FS, staticServer http.Handler) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return &Handlers{Deps: withDefaults(deps), templates: templates, staticServer: staticServer}, nil
}

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(deps Deps) *Handlers {
	return &Handlers{Deps: withDefaults(deps), staticServer: http.NotFoundHandler()}
}

func withDefaults(deps Deps) Deps {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.Health == nil {
		deps.Health = health.NewHandler(nil)
	}
	return deps
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "layout.html", "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Controller, err = template.ParseFS(templatesFS, "layout.html", "controller.html"); err != nil {
		return nil, fmt.Errorf("controller template: %w", err)
	}
	if t.Display, err = template.ParseFS(templatesFS, "layout.html", "display.html"); err != nil {
		return nil, fmt.Errorf("display template: %w", err)
	}

	return t, nil
}

// fail logs unexpected errors before responding; expected rejections are not logged
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = ToAPIError(err)
	}
	if apiErr.Status >= http.StatusInternalServerError {
		h.Log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondError(w, apiErr)
}
