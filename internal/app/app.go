// Package app wires the auction controller, broadcast channel, and HTTP
// server into a single process.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/abrezinsky/auctiondesk/internal/channel"
	"github.com/abrezinsky/auctiondesk/internal/config"
	"github.com/abrezinsky/auctiondesk/internal/display"
	"github.com/abrezinsky/auctiondesk/internal/handlers"
	"github.com/abrezinsky/auctiondesk/internal/health"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/internal/repository"
	"github.com/abrezinsky/auctiondesk/internal/roster"
	"github.com/abrezinsky/auctiondesk/internal/services"
	"github.com/abrezinsky/auctiondesk/internal/snapshot"
	"github.com/abrezinsky/auctiondesk/internal/telemetry"
	"github.com/abrezinsky/auctiondesk/internal/websocket"
	"github.com/abrezinsky/auctiondesk/pkg/sheets"
)

// Options overrides the collaborators New would otherwise build from config
type Options struct {
	// Source supplies the roster tables. Defaults to the files in Config.DataDir.
	Source sheets.Source
	// Clock stamps snapshots and health responses. Defaults to the real clock.
	Clock clockwork.Clock
	// Telemetry defaults to telemetry.Setup with Config.Telemetry.
	Telemetry *telemetry.Provider
}

// App holds all application dependencies
type App struct {
	cfg       *config.Config
	log       logger.Logger
	repo      *repository.Repository
	hub       *websocket.Hub
	auction   *services.AuctionService
	observer  *display.Observer
	health    *health.Handler
	telemetry *telemetry.Provider
	handlers  *handlers.Handlers
	baseURL   string
}

// New creates and initializes a new application instance. The auction is
// not loaded until Start.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, templatesFS, staticFS fs.FS, opts Options) (*App, error) {
	repo, err := repository.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	tp := opts.Telemetry
	if tp == nil {
		if tp, err = telemetry.Setup(ctx, cfg.Telemetry); err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to set up telemetry: %w", err)
		}
	}

	source := opts.Source
	if source == nil {
		source = sheets.NewFileSource(cfg.DataDir, log)
	}

	// Broadcast channel: snapshot slot plus websocket hub
	store := snapshot.NewStore(repo, clock, log, cfg.Auction.RosterCap)
	hub := websocket.New(log, snapshotLoader(store))
	hub.AllowOrigins(cfg.Server.AllowedOrigins...)
	hub.Start()
	syncChannel := channel.New(store, hub, log)

	// Services
	settingsService := services.NewSettingsService(log, repo, services.SettingsDefaults{
		BidIncrement: cfg.Auction.BidIncrement,
		DisplayTitle: cfg.Auction.DisplayTitle,
	})
	rosterStore := roster.NewStore(source, cfg.Auction.RosterCap, log)
	auctionService, err := services.NewAuctionService(log, rosterStore, syncChannel, settingsService, tp.TracerProvider, tp.MeterProvider)
	if err != nil {
		hub.Stop()
		repo.Close()
		return nil, fmt.Errorf("failed to create auction service: %w", err)
	}

	baseURL := fmt.Sprintf("http://%s:%d", getPreferredIP(realNetworkProvider{}), cfg.Server.Port)
	exportService := services.NewExportService(log, auctionService)
	qrService := services.NewQRService(log, settingsService, baseURL)

	observer := display.New(syncChannel, log, func() string {
		title, err := settingsService.DisplayTitle(context.Background())
		if err != nil {
			return cfg.Auction.DisplayTitle
		}
		return title
	})

	healthHandler := health.NewHandler(clock, health.Checker{Name: "database", Check: repo.Ping})

	h, err := handlers.New(handlers.Deps{
		Auction:        auctionService,
		Settings:       settingsService,
		Export:         exportService,
		QR:             qrService,
		Snapshot:       syncChannel,
		Display:        observer,
		Hub:            hub,
		Health:         healthHandler,
		Log:            log,
		PhotosDir:      filepath.Join(cfg.DataDir, "photos"),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, templatesFS, handlers.NewStaticServer(staticFS))
	if err != nil {
		hub.Stop()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		cfg:       cfg,
		log:       log,
		repo:      repo,
		hub:       hub,
		auction:   auctionService,
		observer:  observer,
		health:    healthHandler,
		telemetry: tp,
		handlers:  h,
		baseURL:   baseURL,
	}, nil
}

// snapshotLoader greets new websocket clients with the persisted state
func snapshotLoader(store *snapshot.Store) websocket.SnapshotLoader {
	return func(ctx context.Context) (*models.AuctionState, bool, error) {
		snap, ok, err := store.Peek(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		return snap.State, true, nil
	}
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// BaseURL is the LAN address other devices use to reach the server
func (a *App) BaseURL() string {
	return a.baseURL
}

// ControllerURL is the local address of the controller page
func (a *App) ControllerURL() string {
	return fmt.Sprintf("http://localhost:%d/controller", a.cfg.Server.Port)
}

// DisplayURL is the LAN address of the audience display
func (a *App) DisplayURL() string {
	return a.baseURL + services.DisplayPath
}

// Start loads the auction and starts the in-process display. A roster that
// fails to import leaves the auction idle; the server still starts so the
// files can be fixed and the auction reset.
func (a *App) Start(ctx context.Context) {
	if err := a.auction.Init(ctx); err != nil {
		a.log.Error("Auction initialization failed", "error", err)
	}
	if err := a.observer.Start(ctx); err != nil {
		a.log.Warn("Display started without snapshot", "error", err)
	}
	a.health.SetReady(true)
}

// Run starts the HTTP server and blocks until ctx is canceled, then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.Start(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler: a.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", "url", a.baseURL)
		a.log.Info("Controller URL", "url", a.ControllerURL())
		a.log.Info("Display URL", "url", a.DisplayURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Shutting down")
	a.health.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	a.observer.Stop()
	a.hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.log.Warn("Telemetry shutdown failed", "error", err)
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn("Database close failed", "error", err)
	}
}

// networkInterface is the part of net.Interface used to pick an address
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags           { return r.iface.Flags }
func (r realInterface) Addrs() ([]net.Addr, error) { return r.iface.Addrs() }

type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the IPv4 address the display device should use.
// Private LAN addresses win over public ones; localhost is the last resort.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var fallback string
	for _, iface := range ifaces {
		if flags := iface.Flags(); flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ip := ipv4Of(addr)
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if ip.IsPrivate() {
				return ip.String()
			}
			if fallback == "" {
				fallback = ip.String()
			}
		}
	}

	if fallback != "" {
		return fallback
	}
	return "localhost"
}

func ipv4Of(addr net.Addr) net.IP {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	}
	return ip.To4()
}
