package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/logger"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
	"github.com/SkillDoAI/skilldo/pkg/server"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Host   string
	Port   int
	DBPath string
}

// NewServeConfig creates a new ServeConfig with default values
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "localhost",
		Port: 8080,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill corpus over HTTP",
	Long: `Start a local REST API over the skill corpus. The server exposes document
listings, rendered document bodies, index-backed search, and on-demand
lint runs.

The server will be available at http://localhost:8080 by default.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getServeConfigFromFlags(cmd)
		runServeCommand(ctx, cmd, config)
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind the server to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to bind the server to")
	serveCmd.Flags().String("db", "", "Path to the index database (defaults to ~/.skilldo/index.db)")
}

// getServeConfigFromFlags extracts serve configuration from command flags
func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()

	if host, err := cmd.Flags().GetString("host"); err == nil {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		config.Port = port
	}

	return config
}

// validateServeConfig validates the serve configuration
func validateServeConfig(config *ServeConfig) error {
	if config.Host == "" {
		return errors.New("host cannot be empty")
	}

	if config.Host != "localhost" && config.Host != "0.0.0.0" {
		if ip := net.ParseIP(config.Host); ip == nil {
			if strings.Contains(config.Host, " ") || strings.Contains(config.Host, ":") {
				return errors.Errorf("invalid host: %s", config.Host)
			}
		}
	}

	if config.Port < 1 || config.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}

	if config.Port < 1024 {
		logger.G(context.Background()).WithField("port", config.Port).Warn("using privileged port (< 1024) may require elevated permissions")
	}

	return nil
}

// runServeCommand starts the corpus server
func runServeCommand(ctx context.Context, cmd *cobra.Command, config *ServeConfig) {
	if err := validateServeConfig(config); err != nil {
		presenter.Error(err, "invalid server configuration")
		os.Exit(1)
	}

	dbPath, err := dbPathFromFlags(cmd)
	if err != nil {
		presenter.Error(err, "Failed to determine index database path")
		os.Exit(1)
	}
	config.DBPath = dbPath

	discovery, err := newDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize corpus discovery")
		os.Exit(1)
	}

	logger.G(ctx).WithFields(map[string]interface{}{
		"host": config.Host,
		"port": config.Port,
		"db":   config.DBPath,
	}).Info("Starting corpus server")

	serverConfig := &server.ServerConfig{
		Host:   config.Host,
		Port:   config.Port,
		DBPath: config.DBPath,
	}

	srv, err := server.NewServer(ctx, serverConfig, discovery)
	if err != nil {
		presenter.Error(err, "failed to create corpus server")
		os.Exit(1)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			logger.G(ctx).WithError(closeErr).Error("failed to close corpus server")
		}
	}()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	presenter.Success(fmt.Sprintf("Corpus server starting on http://%s:%d", config.Host, config.Port))
	presenter.Info("Press Ctrl+C to stop the server")

	if err := srv.Start(ctx); err != nil {
		logger.G(ctx).WithError(err).Error("corpus server error")
		presenter.Error(err, "corpus server failed")
		os.Exit(1)
	}

	presenter.Info("Corpus server stopped")
}
