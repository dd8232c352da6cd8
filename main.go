// Command snakes-ladders runs the Snakes & Ladders game server.
//
// It supports two modes:
//  1. "server" (default): HTTP server exposing the REST API, WebSocket updates,
//     Prometheus metrics and an /mcp HTTP endpoint
//  2. "mcp": MCP stdio server, proxying to a running server or to an internal
//     HTTP API bound to a loopback port
//
// Settings come from an optional YAML file and SNAKES_* environment variables;
// command-line flags override both. An optional ngrok tunnel exposes the
// server publicly during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/snakes-ladders/api"
	"github.com/wricardo/snakes-ladders/game/config"
	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
	"github.com/wricardo/snakes-ladders/game/session"
	"github.com/wricardo/snakes-ladders/observability"
	"github.com/wricardo/snakes-ladders/settings"
	"github.com/wricardo/snakes-ladders/transport/mcp"
	"github.com/wricardo/snakes-ladders/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Snakes & Ladders Game Server"
)

// syncInterval is how often in-memory sessions are checked against the store
const syncInterval = 5 * time.Second

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flags on the root apply to every subcommand.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "snakes-ladders",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "path to a YAML settings file",
				Sources: cli.EnvVars("SNAKES_SETTINGS"),
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP listen address (host:port)",
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory containing board files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "session store: file, redis or memory",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "ngrok",
				Usage: "expose the server through an ngrok tunnel",
			},
			&cli.StringFlag{
				Name:  "ngrok-domain",
				Usage: "custom ngrok domain",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server",
				Action:  runMCP,
			},
		},
		Action: runServer,
	}
}

// loadSettings reads the settings file and environment, then applies flag overrides
func loadSettings(cmd *cli.Command) (settings.Settings, error) {
	s, err := settings.Load(cmd.String("settings"))
	if err != nil {
		return settings.Settings{}, err
	}

	if cmd.IsSet("addr") {
		s.Server.Addr = cmd.String("addr")
	}
	if cmd.IsSet("config-dir") {
		s.Server.ConfigDir = cmd.String("config-dir")
	}
	if cmd.IsSet("store") {
		s.Sessions.Store = cmd.String("store")
	}
	if cmd.Bool("debug") {
		s.Logging.Level = "debug"
	}
	if cmd.Bool("ngrok") {
		s.Ngrok.Enabled = true
	}
	if cmd.IsSet("ngrok-domain") {
		s.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	if err := s.Validate(); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

// application holds the wired services shared by both modes
type application struct {
	settings settings.Settings
	logger   *zap.Logger
	configs  *config.Manager
	sessions *session.Manager
	service  service.GameService
	closers  []func() error
}

// initializeServices wires the config manager, session store and game service
func initializeServices(s settings.Settings, logger *zap.Logger) (*application, error) {
	configs, err := config.NewManager(s.Server.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if s.Server.DefaultBoard != "" && s.Server.DefaultBoard != engine.DefaultBoardName {
		if err := configs.SetDefault(s.Server.DefaultBoard); err != nil {
			return nil, fmt.Errorf("failed to set default board %q: %w", s.Server.DefaultBoard, err)
		}
	}

	app := &application{
		settings: s,
		logger:   logger,
		configs:  configs,
	}

	engineOpts := []engine.Option{engine.WithAckRequired(s.Server.RequireAck)}
	managerOpts := []session.Option{
		session.WithEngineOptions(engineOpts...),
		session.WithLogger(logger.Named("session")),
	}

	switch s.Sessions.Store {
	case "file":
		persistence, err := session.NewFilePersistence(s.Sessions.Dir, configs, engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		managerOpts = append(managerOpts, session.WithPersistence(persistence))
	case "redis":
		client, err := session.NewRedisClient(s.Redis.Addr, s.Redis.Password, s.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		persistence := session.NewRedisPersistence(client, s.Redis.KeyPrefix, s.Redis.TTL, configs, engineOpts...)
		managerOpts = append(managerOpts, session.WithPersistence(persistence))
	}

	app.sessions = session.NewManager(managerOpts...)
	if err := app.sessions.LoadPersistedSessions(); err != nil {
		logger.Warn("failed to load persisted sessions", zap.Error(err))
	}

	app.service = service.NewGameService(app.sessions, configs, service.WithLogger(logger.Named("service")))

	logger.Info("services initialized",
		zap.String("config_dir", s.Server.ConfigDir),
		zap.String("store", s.Sessions.Store),
		zap.Bool("require_ack", s.Server.RequireAck),
		zap.Int("sessions", app.sessions.Count()))

	return app, nil
}

// close saves every session and releases store connections
func (a *application) close() {
	if err := a.sessions.SaveAllSessions(); err != nil {
		a.logger.Warn("failed to save sessions on shutdown", zap.Error(err))
	}
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			a.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
}

// runMaintenance evicts idle sessions and prunes sessions whose stored copy
// was deleted, until ctx is cancelled.
func (a *application) runMaintenance(ctx context.Context) {
	cleanup := time.NewTicker(a.settings.Sessions.CleanupInterval)
	defer cleanup.Stop()
	orphans := time.NewTicker(syncInterval)
	defer orphans.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := a.sessions.CleanupExpiredSessions(a.settings.Sessions.MaxAge); removed > 0 {
				a.logger.Info("cleaned up expired sessions", zap.Int("count", removed))
			}
		case <-orphans.C:
			if pruned := a.sessions.PruneOrphaned(); pruned > 0 {
				a.logger.Info("pruned orphaned sessions", zap.Int("count", pruned))
			}
		}
	}
}

// newLogger builds the process logger from settings
func newLogger(s settings.Settings) (*zap.Logger, error) {
	logger, err := observability.NewLogger(s.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.With(zap.String("app", "snakes-ladders")), nil
}

// newHandler mounts the API server at the root and the MCP JSON-RPC endpoint at /mcp
func newHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mux
}

// runServer starts the HTTP server and blocks until SIGINT/SIGTERM
func runServer(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(s)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("version", Version), zap.String("mode", "server"))

	app, err := initializeServices(s, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.runMaintenance(ctx)

	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	apiServer := api.NewServer(app.service, hub, api.WithLogger(logger.Named("api")))
	mcpClient := mcp.NewClient("http://" + s.Server.Addr)
	handler := newHandler(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         s.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP server listening",
			zap.String("addr", s.Server.Addr),
			zap.String("api", fmt.Sprintf("http://%s/api", s.Server.Addr)),
			zap.String("ws", fmt.Sprintf("ws://%s/ws?session=<session_id>", s.Server.Addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", s.Server.Addr)))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if s.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, s.Ngrok, handler, logger.Named("ngrok"))
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-serveErr:
		logger.Error("HTTP server failed", zap.Error(runErr))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	app.close()
	logger.Info("server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled
func runNgrok(ctx context.Context, s settings.NgrokSettings, handler http.Handler, logger *zap.Logger) {
	authToken := s.AuthToken
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (set ngrok.authtoken or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if s.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	logger.Info("ngrok tunnel established",
		zap.String("url", tun.URL()),
		zap.String("mcp", tun.URL()+"/mcp"))

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Warn("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// serverAvailable reports whether a game server answers health checks at baseURL
func serverAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalServer serves the API on a random loopback port and returns its base URL
func startInternalServer(ctx context.Context, app *application) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub(app.logger.Named("ws"))
	go hub.Run(ctx)

	httpServer := &http.Server{
		Handler: api.NewServer(app.service, hub, api.WithLogger(app.logger.Named("api"))),
	}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("internal HTTP server error", zap.Error(err))
		}
	}()

	return "http://" + listener.Addr().String(), httpServer, nil
}

// runMCP serves MCP over stdio. It reuses a server already running at the
// configured address, otherwise it starts an internal one.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(s)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("version", Version), zap.String("mode", "mcp"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := "http://" + s.Server.Addr
	if serverAvailable(ctx, baseURL) {
		logger.Info("using external API server", zap.String("url", baseURL))
	} else {
		app, err := initializeServices(s, logger)
		if err != nil {
			return err
		}
		defer app.close()
		go app.runMaintenance(ctx)

		var httpServer *http.Server
		baseURL, httpServer, err = startInternalServer(ctx, app)
		if err != nil {
			return err
		}
		defer httpServer.Close()
		logger.Info("started internal API server", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
