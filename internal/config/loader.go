package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/ekisa-team/defaultrisk/internal/envvar"
	"github.com/ekisa-team/defaultrisk/internal/xfs"
)

//go:embed schema/defaultrisk.v1.schema.json
var embeddedSchema string

const embeddedSchemaURL = "defaultrisk.v1.schema.json"

// LoadAndValidate loads and validates the configuration. An empty schemaPath
// selects the schema embedded in the binary. Values absent from the file keep
// their defaults.
func LoadAndValidate(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}
	config.expandPaths()

	return config, nil
}

// LoadOrDefault behaves like LoadAndValidate but returns the defaults when the
// config file does not exist. The boolean reports whether a file was read.
func LoadOrDefault(path, schemaPath string) (*Config, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		config := Default()
		config.expandPaths()
		return config, false, nil
	}

	config, err := LoadAndValidate(path, schemaPath)
	if err != nil {
		return nil, true, err
	}
	return config, true, nil
}

// ApplyEnv overrides config values with DEFAULTRISK_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(envvar.DefaultRiskServerHTTPPort); v != "" {
		port, err := parsePort(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envvar.DefaultRiskServerHTTPPort, err)
		}
		cfg.Server.HTTPPort = port
	}

	if v := os.Getenv(envvar.DefaultRiskServerGRPCPort); v != "" {
		port, err := parsePort(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envvar.DefaultRiskServerGRPCPort, err)
		}
		cfg.Server.GRPCPort = port
	}

	if v := os.Getenv(envvar.DefaultRiskLogLevel); v != "" {
		if _, err := ParseLevel(v); err != nil {
			return fmt.Errorf("config: %s: %w", envvar.DefaultRiskLogLevel, err)
		}
		cfg.Logging.Level = v
	}

	return nil
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	if schemaPath == "" {
		return jsonschema.CompileString(embeddedSchemaURL, embeddedSchema)
	}
	return jsonschema.Compile(schemaPath)
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

func (c *Config) expandPaths() {
	c.Artifacts.Scaler = xfs.ExpandTilde(c.Artifacts.Scaler)
	c.Artifacts.Classifier = xfs.ExpandTilde(c.Artifacts.Classifier)
	c.Frontend.Dir = xfs.ExpandTilde(c.Frontend.Dir)
	c.Logging.File = xfs.ExpandTilde(c.Logging.File)
}
