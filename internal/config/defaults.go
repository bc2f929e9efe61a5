package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	defaultHTTPPort        = 8000
	defaultShutdownTimeout = 10 * time.Second
	defaultScalerPath      = "scaler.json"
	defaultClassifierPath  = "model.json"
	defaultFrontendDir     = "frontend/AI_financial_analyst/dist"
	defaultFrontendIndex   = "index.html"
	defaultLogFile         = "logs/defaultrisk.log"
)

// DefaultHTTPPort returns the default HTTP port.
func DefaultHTTPPort() int {
	return defaultHTTPPort
}

// Default returns the configuration used when no config file exists.
// Paths are relative to the working directory.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			HTTPPort:        defaultHTTPPort,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Artifacts: ArtifactsConfig{
			Scaler:     defaultScalerPath,
			Classifier: defaultClassifierPath,
		},
		Frontend: FrontendConfig{
			Dir:   defaultFrontendDir,
			Index: defaultFrontendIndex,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  defaultLogFile,
		},
	}
}

// DefaultConfigPath returns the default path for the defaultrisk config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "defaultrisk", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "defaultrisk")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "defaultrisk")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "defaultrisk")
		}
		return filepath.Join(home, ".config", "defaultrisk")
	}
}
