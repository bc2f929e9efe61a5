package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"
)

//go:embed schema/scaler.schema.json
var scalerSchemaSource string

//go:embed schema/classifier.schema.json
var classifierSchemaSource string

var (
	scalerSchema     = jsonschema.MustCompileString("scaler.schema.json", scalerSchemaSource)
	classifierSchema = jsonschema.MustCompileString("classifier.schema.json", classifierSchemaSource)
)

type fileFormat int

const (
	formatJSON fileFormat = iota
	formatYAML
)

// formatOf picks the artifact decoder from the file extension.
func formatOf(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// decodeArtifact reads the file at path, validates it against schema and
// decodes it into v.
func decodeArtifact(path string, schema *jsonschema.Schema, v any) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	unmarshal := json.Unmarshal
	if format == formatYAML {
		unmarshal = yaml.Unmarshal
	}

	var raw any
	if err := unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: malformed document: %v", ErrInvalidArtifact, err)
	}

	if err := schema.Validate(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	if err := unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	return nil
}
