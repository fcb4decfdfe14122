package core

import (
	"context"
	"fmt"
	"io"

	"mediaskills/logging"

	"go.uber.org/zap"
)

// Runtime is the startup state every command shares: resolved configuration
// and a logger tagged with the tool name and a run id.
type Runtime struct {
	Config *Config
	Logger *logging.Logger
	RunID  string
}

// StartRuntime loads the env layers under envDir, resolves Config and builds
// the logger. Log entries go to console (stderr when nil) and, when
// MEDIASKILLS_LOG_FILE is set, to a rotating file.
func StartRuntime(ctx context.Context, tool, envDir string, console io.Writer) (*Runtime, error) {
	layers, err := LoadEnvLayers(envDir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(ctx, layers)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logging.Options{
		Level:       logging.ParseLogLevel(cfg.LogLevel, logging.InfoLevel),
		Development: cfg.Development,
		FilePath:    cfg.LogFile,
		Console:     console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	runID := NewRunID()
	logger = logger.With(zap.String("tool", tool), zap.String("run_id", runID))
	logger.Debug("Configuration loaded",
		zap.String("env_cwd", layers.CwdPath),
		zap.String("env_home", layers.HomePath),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Bool("allow_self_signed_certs", cfg.AllowSelfSignedCerts))

	return &Runtime{Config: cfg, Logger: logger, RunID: runID}, nil
}
