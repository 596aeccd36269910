// Package hudumcp exposes the Hudu documentation and asset-management API
// as MCP tools. The root Server type wires the REST client, the tool
// router, and the MCP transport together, and can be embedded in a larger
// program or run standalone via cmd/hudumcp.
package hudumcp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hudulabs/hudumcp/internal/config"
	"github.com/hudulabs/hudumcp/internal/errortypes"
	"github.com/hudulabs/hudumcp/internal/handlers"
	"github.com/hudulabs/hudumcp/internal/hudu"
	"github.com/hudulabs/hudumcp/internal/router"
	"github.com/hudulabs/hudumcp/internal/server"
	"github.com/hudulabs/hudumcp/internal/telemetry"
)

// Config represents the configuration for the Hudu MCP service.
type Config = config.Config

// Server represents the Hudu MCP service.
type Server struct {
	config     *config.Config
	client     *hudu.Client
	router     *router.Router
	metrics    *telemetry.MetricsCollector
	toolServer server.ToolServer
	logger     *slog.Logger
}

// ServerOptions defines the options for creating a new Server.
type ServerOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, the default path is tried.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.
}

// NewServer creates a new Hudu MCP Server with the given options.
func NewServer(opts ServerOptions) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
		logger.Info("Using provided Config object for server initialization")
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration for server initialization", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			logger.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		cfg, err = config.LoadConfig()
		if err != nil {
			logger.Error("Failed to load configuration", "error", err)
			return nil, errortypes.ConfigError(err, "failed to load configuration")
		}
	}

	client, rtr, metrics, err := CreateComponents(cfg, logger)
	if err != nil {
		logger.Error("Failed to create components during server initialization", "error", err)
		return nil, err
	}

	logger.Info("Initializing Hudu tool server component")
	toolServer := server.NewHuduToolServer(rtr)
	if err := toolServer.Initialize(); err != nil {
		logger.Error("Failed to initialize MCP Hudu tool server component", "error", err)
		return nil, errortypes.ConfigError(err, "failed to initialize MCP Hudu tool server component")
	}

	logger.Info("Hudu MCP server successfully initialized")
	return &Server{
		config:     cfg,
		client:     client,
		router:     rtr,
		metrics:    metrics,
		toolServer: toolServer,
		logger:     logger,
	}, nil
}

// CreateComponents builds the REST client, the metrics collector, and the
// fully-populated tool router from a configuration.
func CreateComponents(cfg *config.Config, logger *slog.Logger) (*hudu.Client, *router.Router, *telemetry.MetricsCollector, error) {
	if cfg.Hudu.BaseURL == "" {
		return nil, nil, nil, errortypes.ConfigError(errors.New("hudu base_url is required"), "invalid configuration")
	}
	if cfg.Hudu.APIKey == "" {
		return nil, nil, nil, errortypes.ConfigError(errors.New("hudu api_key is required"), "invalid configuration")
	}

	metrics := telemetry.NewMetricsCollector()
	client := hudu.NewClient(hudu.Config{
		BaseURL: cfg.Hudu.BaseURL,
		APIKey:  cfg.Hudu.APIKey,
		Timeout: time.Duration(cfg.Hudu.TimeoutSeconds) * time.Second,
	}).WithMetrics(metrics)

	rtr := router.New(metrics, logger)
	if err := handlers.Register(rtr, client); err != nil {
		return nil, nil, nil, errortypes.ConfigError(err, "failed to register tool handlers")
	}

	return client, rtr, metrics, nil
}

// Ping verifies connectivity and credentials against the configured Hudu
// instance with a minimal request.
func (s *Server) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Start starts the Hudu MCP service on the stdio transport. It blocks
// until the transport is closed.
func (s *Server) Start() error {
	s.logger.Info("Starting Hudu MCP service")
	return s.toolServer.Start()
}

// Stop stops the Hudu MCP service.
func (s *Server) Stop() error {
	s.logger.Info("Stopping Hudu MCP service")
	if err := s.toolServer.Stop(); err != nil {
		s.logger.Error("Error stopping tool server", "error", err)
		return err
	}
	for _, line := range s.metrics.Snapshot() {
		s.logger.Debug("Metric", "value", line)
	}
	s.logger.Info("Hudu MCP service stopped")
	return nil
}

// CallTool invokes a tool in-process, bypassing the MCP transport. Useful
// when embedding the service in a larger program.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	result, err := s.router.Call(ctx, name, args)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// DescribeTools returns the advertised tool catalog.
func (s *Server) DescribeTools() []router.ToolSpec {
	return s.router.Describe()
}

// Metrics exposes the service's metrics collector.
func (s *Server) Metrics() *telemetry.MetricsCollector {
	return s.metrics
}
