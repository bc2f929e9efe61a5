package model

import "errors"

// Error definitions for the model package.
var (
	ErrInvalidArtifact = errors.New("invalid artifact")
	ErrUnknownKind     = errors.New("unknown artifact kind")
	ErrUnknownFormat   = errors.New("unknown artifact file format")
	ErrShapeMismatch   = errors.New("feature shape mismatch")
)
