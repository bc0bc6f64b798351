// Package config reads the agent runtime's boot configuration from the
// environment, grounded on the teacher's coding-agent server config: a
// Default/Load/Validate trio of plain functions with no framework, plus a
// best-effort .env load for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = "127.0.0.1:8080"
	defaultShutdownTimeout = 5 * time.Second
	defaultDataDir         = ".agent-data"
	defaultLogFormat       = LogFormatText
	defaultLogLevel        = slog.LevelInfo
)

// LogFormat selects the slog handler cmd/agentrtd installs.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config controls HTTP boot, shutdown, storage, and logging behavior.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	DataDir         string
	LogFormat       LogFormat
	LogLevel        slog.Level
}

// Load reads a .env file if present (never fatal if absent), then overlays
// environment variables on top of Default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if addr := strings.TrimSpace(os.Getenv("AGENTRT_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}

	if timeout := strings.TrimSpace(os.Getenv("AGENTRT_SHUTDOWN_TIMEOUT")); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse AGENTRT_SHUTDOWN_TIMEOUT: %w", err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("parse AGENTRT_SHUTDOWN_TIMEOUT: value must be > 0")
		}
		cfg.ShutdownTimeout = parsed
	}

	if dir := strings.TrimSpace(os.Getenv("AGENTRT_DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}

	if level := strings.TrimSpace(os.Getenv("AGENTRT_LOG_LEVEL")); level != "" {
		parsed, err := parseLogLevel(level)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = parsed
	}

	if format := strings.TrimSpace(os.Getenv("AGENTRT_LOG_FORMAT")); format != "" {
		parsed, err := parseLogFormat(format)
		if err != nil {
			return Config{}, err
		}
		cfg.LogFormat = parsed
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the configuration used when no environment variable
// overrides a field.
func Default() Config {
	dataDir := defaultDataDir
	if cwd, err := os.Getwd(); err == nil && strings.TrimSpace(cwd) != "" {
		dataDir = cwd + string(os.PathSeparator) + defaultDataDir
	}

	return Config{
		HTTPAddr:        defaultHTTPAddr,
		ShutdownTimeout: defaultShutdownTimeout,
		DataDir:         dataDir,
		LogFormat:       defaultLogFormat,
		LogLevel:        defaultLogLevel,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("validate config: AGENTRT_HTTP_ADDR must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("validate config: AGENTRT_SHUTDOWN_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("validate config: AGENTRT_DATA_DIR must not be empty")
	}

	switch c.LogLevel {
	case slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError:
	default:
		return fmt.Errorf(
			"validate config: unsupported AGENTRT_LOG_LEVEL %q (allowed: %q, %q, %q, %q)",
			c.LogLevel.String(),
			slog.LevelDebug.String(),
			slog.LevelInfo.String(),
			slog.LevelWarn.String(),
			slog.LevelError.String(),
		)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf(
			"validate config: unsupported AGENTRT_LOG_FORMAT %q (allowed: %q, %q)",
			c.LogFormat,
			LogFormatText,
			LogFormatJSON,
		)
	}

	return nil
}

func parseLogLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf(
			"parse AGENTRT_LOG_LEVEL: unsupported value %q (allowed: %q, %q, %q, %q)",
			input,
			slog.LevelDebug.String(),
			slog.LevelInfo.String(),
			slog.LevelWarn.String(),
			slog.LevelError.String(),
		)
	}
}

func parseLogFormat(input string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(LogFormatText):
		return LogFormatText, nil
	case string(LogFormatJSON):
		return LogFormatJSON, nil
	default:
		return "", fmt.Errorf(
			"parse AGENTRT_LOG_FORMAT: unsupported value %q (allowed: %q, %q)",
			input,
			LogFormatText,
			LogFormatJSON,
		)
	}
}
