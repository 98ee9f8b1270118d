package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/pos-identity/internal/auth"
	"github.com/frahmantamala/pos-identity/internal/module"
	"github.com/frahmantamala/pos-identity/internal/role"
	"github.com/frahmantamala/pos-identity/internal/transport"
	"github.com/frahmantamala/pos-identity/internal/transport/openapi"
	"github.com/frahmantamala/pos-identity/internal/transport/rest"
	"github.com/frahmantamala/pos-identity/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	App    *application
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	cfg := deps.App.Config
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.App.Close()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.App.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	doc, err := openapi.Load(context.Background())
	if err != nil {
		return nil, err
	}

	app, err := newApplication(cfg, log)
	if err != nil {
		return nil, err
	}

	base := transport.NewBaseHandler(log)
	router := chi.NewRouter()

	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:       auth.NewHandler(base, app.Auth),
		Roles:      role.NewHandler(base, app.Roles),
		Modules:    module.NewHandler(base, app.Modules),
		RBAC:       auth.NewRBACAuthorization(app.Access, log),
		Validator:  openapi.NewValidator(doc, log),
		DB:         app.SQL,
		CORSOrigin: cfg.Server.AllowedOrigins,
	}, log)

	return &Dependencies{
		App:    app,
		Router: router,
		Logger: log,
	}, nil
}
