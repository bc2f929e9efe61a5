package model

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// ArtifactRole names the part an artifact plays in the Store.
type ArtifactRole string

const (
	// ArtifactRoleScaler is the fitted feature transform.
	ArtifactRoleScaler ArtifactRole = "scaler"

	// ArtifactRoleClassifier is the fitted classifier.
	ArtifactRoleClassifier ArtifactRole = "classifier"
)

// ArtifactInfo describes a loaded artifact.
type ArtifactInfo struct {
	LoadedAt    time.Time    `json:"loaded_at"`
	Role        ArtifactRole `json:"role"`
	Kind        string       `json:"kind"`
	Path        string       `json:"path,omitempty"`
	NumFeatures int          `json:"n_features"`
}

// Paths locates the two artifact files.
type Paths struct {
	Scaler     string
	Classifier string
}

// Store holds the fitted scaler and classifier for the lifetime of the
// process. It is built once and never mutated, so it may be shared by any
// number of goroutines without locking.
type Store struct {
	scaler     Scaler
	classifier Classifier
	artifacts  []ArtifactInfo
}

// Load reads and validates both artifacts. Any error is fatal for the caller:
// the process cannot serve predictions without them.
func Load(paths Paths) (*Store, error) {
	scaler, err := LoadScaler(paths.Scaler)
	if err != nil {
		return nil, fmt.Errorf("model: failed to load scaler: %w", err)
	}

	classifier, err := LoadClassifier(paths.Classifier)
	if err != nil {
		return nil, fmt.Errorf("model: failed to load classifier: %w", err)
	}

	store, err := NewStore(scaler, classifier)
	if err != nil {
		return nil, err
	}

	store.artifacts[0].Path = paths.Scaler
	store.artifacts[1].Path = paths.Classifier

	for _, a := range store.artifacts {
		slog.Info("Artifact loaded", "role", a.Role, "kind", a.Kind, "path", a.Path, "n_features", a.NumFeatures)
	}

	return store, nil
}

// NewStore pairs an already constructed scaler and classifier. Both must
// have been fitted on the same number of features.
func NewStore(scaler Scaler, classifier Classifier) (*Store, error) {
	if scaler.NumFeatures() != classifier.NumFeatures() {
		return nil, fmt.Errorf("model: %w: scaler has %d features, classifier has %d",
			ErrInvalidArtifact, scaler.NumFeatures(), classifier.NumFeatures())
	}

	now := time.Now()
	return &Store{
		scaler:     scaler,
		classifier: classifier,
		artifacts: []ArtifactInfo{
			{Role: ArtifactRoleScaler, Kind: string(scaler.Kind()), NumFeatures: scaler.NumFeatures(), LoadedAt: now},
			{Role: ArtifactRoleClassifier, Kind: string(classifier.Kind()), NumFeatures: classifier.NumFeatures(), LoadedAt: now},
		},
	}, nil
}

// Scaler returns the fitted scaler.
func (s *Store) Scaler() Scaler {
	return s.scaler
}

// Classifier returns the fitted classifier.
func (s *Store) Classifier() Classifier {
	return s.classifier
}

// NumFeatures returns the dimensionality both artifacts were fitted on.
func (s *Store) NumFeatures() int {
	return s.scaler.NumFeatures()
}

// Artifacts returns load metadata for both artifacts.
func (s *Store) Artifacts() []ArtifactInfo {
	return slices.Clone(s.artifacts)
}
