package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abrezinsky/auctiondesk/internal/app"
	"github.com/abrezinsky/auctiondesk/internal/browser"
	"github.com/abrezinsky/auctiondesk/internal/config"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/web"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

// showBanner prints the logo box
func showBanner() {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"     _               _   _                 _           _    ",
		"    / \\  _   _  ___| |_(_) ___  _ __   __| | ___  ___| | __ ",
		"   / _ \\| | | |/ __| __| |/ _ \\| '_ \\ / _` |/ _ \\/ __| |/ / ",
		"  / ___ \\ |_| | (__| |_| | (_) | | | | (_| |  __/\\__ \\   <  ",
		" /_/   \\_\\__,_|\\___|\\__|_|\\___/|_| |_|\\__,_|\\___||___/_|\\_\\ ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		if pad := width - len(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		fmt.Printf("  %s║%s%s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	dataDir := flag.String("data", "", "Directory holding players and teams files (overrides config)")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (overrides config)")
	noBanner := flag.Bool("nobanner", false, "Skip the startup logo")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	openController := flag.Bool("open", false, "Open the controller page once the server is up")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `AuctionDesk - live player auction controller and display

Usage:
  auctiondesk [options]

Options:
  -config path   YAML config file
  -port int      HTTP server port (default 8081)
  -db string     SQLite database path (default "auction.db")
  -data dir      Directory with players.csv/.xlsx and teams.csv/.xlsx (default "data")
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -nobanner      Skip the startup logo
  -nokeyboard    Disable keyboard shortcuts
  -open          Open the controller page in the browser
  -version       Show version and exit
  -help          Show this help message

Environment:
  AUCTIONDESK_PORT, AUCTIONDESK_DB, AUCTIONDESK_DATA_DIR, AUCTIONDESK_LOG_LEVEL,
  AUCTIONDESK_ROSTER_CAP, AUCTIONDESK_BID_INCREMENT, AUCTIONDESK_DISPLAY_TITLE,
  AUCTIONDESK_ALLOWED_ORIGINS, AUCTIONDESK_TELEMETRY, AUCTIONDESK_OTLP_ENDPOINT
  A .env file in the working directory is read as well.

Keyboard Shortcuts (when enabled):
  c              Open controller page in browser
  d              Open display page in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  auctiondesk                              # Run on port 8081 reading ./data
  auctiondesk -data ./league -port 8080    # Custom roster directory and port
  auctiondesk -config auction.yaml -open   # Config file, open the controller

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("auctiondesk %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	// Flags win over file and environment
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	cfg.Telemetry.ServiceVersion = version
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	if !*noBanner {
		showBanner()
	}

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLog, web.GetTemplatesFS(), web.GetStaticFS(), app.Options{})
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(ctx)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	launcher := browser.New()
	keys := &shortcuts{
		out:           os.Stdout,
		log:           appLog,
		open:          launcher.Open,
		controllerURL: a.ControllerURL(),
		displayURL:    a.DisplayURL(),
		quit:          stop,
	}

	if *openController {
		keys.handle('c')
	}

	if !*noKeyboard {
		keys.printHelp()
		go listenForKeyboard(ctx, keys)
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	}

	if err := <-serverErr; err != nil {
		appLog.Error("Server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
}
