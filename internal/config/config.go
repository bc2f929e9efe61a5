package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds the main configuration for the application.
type Config struct {
	Version   string          `json:"version"             yaml:"version"`
	Server    ServerConfig    `json:"server"              yaml:"server"`
	Artifacts ArtifactsConfig `json:"artifacts"           yaml:"artifacts"`
	Frontend  FrontendConfig  `json:"frontend"            yaml:"frontend"`
	Logging   LoggingConfig   `json:"logging,omitempty"   yaml:"logging,omitempty"`
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Host            string        `json:"host,omitempty"             yaml:"host,omitempty"`
	HTTPPort        int           `json:"http_port"                  yaml:"http_port"`
	GRPCPort        int           `json:"grpc_port,omitempty"        yaml:"grpc_port,omitempty"` // 0 disables gRPC
	ShutdownTimeout time.Duration `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`
}

// ArtifactsConfig holds the paths of the two fitted artifacts.
// They are read once at startup and never reloaded.
type ArtifactsConfig struct {
	Scaler     string `json:"scaler"     yaml:"scaler"`
	Classifier string `json:"classifier" yaml:"classifier"`
}

// FrontendConfig holds the location of the prebuilt frontend bundle.
// An empty Dir disables static hosting.
type FrontendConfig struct {
	Dir   string `json:"dir"             yaml:"dir"`
	Index string `json:"index,omitempty" yaml:"index,omitempty"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `json:"level,omitempty"   yaml:"level,omitempty"`
	File   string `json:"file,omitempty"    yaml:"file,omitempty"`
	ToFile bool   `json:"to_file,omitempty" yaml:"to_file,omitempty"`
	Source bool   `json:"source,omitempty"  yaml:"source,omitempty"`
}

// HTTPAddr returns the HTTP listen address.
func (s ServerConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.HTTPPort)
}

// GRPCAddr returns the gRPC listen address.
func (s ServerConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.GRPCPort)
}

// SlogLevel parses the configured level. Unknown values fall back to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	level, err := ParseLevel(l.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
