package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hudulabs/hudumcp"
	"github.com/hudulabs/hudumcp/internal/config"
	"github.com/hudulabs/hudumcp/internal/errortypes"
	"github.com/hudulabs/hudumcp/internal/logger"
)

func main() {
	// Initialize logging first thing, before config is available.
	appLogger := logger.Setup(os.Getenv("HUDU_LOG_LEVEL"), os.Getenv("HUDU_LOG_FORMAT"))

	appLogger.Info("Hudu MCP Server - Starting...")

	cfg, err := config.LoadConfig()
	if err != nil {
		errortypes.LogError(appLogger, err)
		appLogger.Error("Failed to load configuration")
		os.Exit(1)
	}

	// Reconfigure logging from the loaded config.
	appLogger = logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	srv, err := hudumcp.NewServer(hudumcp.ServerOptions{
		Config: cfg,
		Logger: appLogger,
	})
	if err != nil {
		errortypes.LogError(appLogger, err)
		appLogger.Error("Failed to initialize Hudu MCP server")
		os.Exit(1)
	}

	// "hudumcp tools" prints the tool catalog and exits, for inspecting
	// the surface without a live Hudu instance.
	if len(os.Args) > 1 && os.Args[1] == "tools" {
		catalog, err := json.MarshalIndent(srv.DescribeTools(), "", "  ")
		if err != nil {
			appLogger.Error("Failed to render tool catalog", "error", err)
			os.Exit(1)
		}
		os.Stdout.Write(append(catalog, '\n'))
		return
	}

	// Connectivity pre-check before announcing tools to the host.
	pingCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = srv.Ping(pingCtx)
	cancel()
	if err != nil {
		err = errortypes.NetworkError(err, "Hudu API connectivity check failed")
		errortypes.LogError(appLogger, err)
		appLogger.Error("Cannot reach the configured Hudu instance; check HUDU_BASE_URL and HUDU_API_KEY")
		os.Exit(1)
	}
	appLogger.Info("Hudu API connectivity check passed", "base_url", cfg.Hudu.BaseURL)

	setupSignalHandler(srv, appLogger)

	// Start the MCP server (this blocks until stdin is closed).
	appLogger.Info("Starting MCP server...")
	if err := srv.Start(); err != nil {
		err = errortypes.APIError(err, "MCP server failed")
		errortypes.LogError(appLogger, err)
		appLogger.Error("Failed to start MCP server")
		os.Exit(1)
	}
}

// setupSignalHandler sets up a signal handler for graceful shutdown.
func setupSignalHandler(srv *hudumcp.Server, log *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Received shutdown signal, terminating gracefully...")
		if err := srv.Stop(); err != nil {
			errortypes.LogError(nil, err)
		}
		log.Info("Shutdown complete")
		os.Exit(0)
	}()
}
