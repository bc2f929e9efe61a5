package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ekisa-team/defaultrisk/internal/envvar"
)

// Environment is the deployment environment the process runs in.
type Environment string

const (
	// Development enables human-readable colored logs.
	Development Environment = "development"

	// Production enables JSON logs.
	Production Environment = "production"

	// Test is used by the test suites.
	Test Environment = "test"
)

// FromEnv reads the environment from DEFAULTRISK_ENV, falling back to Development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.DefaultRiskEnv))
}

// Parse converts a string into an Environment. Unknown values map to Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("env: failed to load %s: %w", p, err)
		}
	}

	return nil
}
