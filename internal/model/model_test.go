package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const (
	standardScalerJSON = `{
  "kind": "standard",
  "n_features": 2,
  "params": {"mean": [1, 2], "scale": [2, 4]}
}`

	logisticJSON = `{
  "kind": "logistic_regression",
  "n_features": 2,
  "params": {"classes": [0, 1], "coef": [0.5, -0.25], "intercept": 0.1}
}`

	treeYAML = `
kind: decision_tree
n_features: 2
params:
  classes: [0, 1]
  nodes:
    - {feature: 0, threshold: 0.5, left: 1, right: 2}
    - {left: -1, right: -1, value: [30, 10]}
    - {feature: 1, threshold: -1, left: 3, right: 4}
    - {left: -1, right: -1, value: [1, 3]}
    - {left: -1, right: -1, value: [5, 5]}
`
)

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func row(values ...float64) *mat.Dense {
	return mat.NewDense(1, len(values), values)
}

func TestStandardScaler_Transform(t *testing.T) {
	s, err := NewStandardScaler(2, []float64{1, 2}, []float64{2, 4}, true, true)
	require.NoError(t, err)

	out, err := s.Transform(row(3, 6))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, out.RawRowView(0))

	_, err = s.Transform(row(1, 2, 3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestStandardScaler_WithoutMean(t *testing.T) {
	s, err := NewStandardScaler(2, nil, []float64{2, 4}, false, true)
	require.NoError(t, err)

	out, err := s.Transform(row(3, 6))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 1.5}, out.RawRowView(0))
	assert.Equal(t, 2, s.NumFeatures())
}

func TestNewStandardScaler_Invalid(t *testing.T) {
	_, err := NewStandardScaler(2, []float64{1}, []float64{1, 1}, true, true)
	assert.ErrorIs(t, err, ErrInvalidArtifact)

	_, err = NewStandardScaler(2, []float64{0, 0}, []float64{1, 0}, true, true)
	assert.ErrorIs(t, err, ErrInvalidArtifact)

	_, err = NewStandardScaler(0, nil, nil, true, true)
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestMinMaxScaler_Transform(t *testing.T) {
	s, err := NewMinMaxScaler(2, []float64{0, -1}, []float64{0.5, 0.25})
	require.NoError(t, err)

	out, err := s.Transform(row(2, 8))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, out.RawRowView(0))

	_, err = s.Transform(row(1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestLogisticRegression(t *testing.T) {
	m, err := NewLogisticRegression(2, []float64{0.5, -0.25}, 0.1)
	require.NoError(t, err)

	x := mat.NewDense(2, 2, []float64{
		1, 1, // z = 0.35
		-1, 0, // z = -0.4
	})

	labels, err := m.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, labels)

	proba, err := m.PredictProba(x)
	require.NoError(t, err)
	assert.InDelta(t, 0.5866175789, proba.At(0, 1), 1e-9)
	assert.InDelta(t, 1-0.5866175789, proba.At(0, 0), 1e-9)
	assert.Less(t, proba.At(1, 1), 0.5)

	_, err = m.Predict(row(1, 2, 3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDecisionTree(t *testing.T) {
	tree, err := NewDecisionTree(2, []TreeNode{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Left: -1, Right: -1, Value: []float64{30, 10}},
		{Feature: 1, Threshold: -1, Left: 3, Right: 4},
		{Left: -1, Right: -1, Value: []float64{1, 3}},
		{Left: -1, Right: -1, Value: []float64{5, 5}},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		x     []float64
		label int
		p     float64
	}{
		{"left leaf", []float64{0, 0}, 0, 0.25},
		{"threshold goes left", []float64{0.5, 9}, 0, 0.25},
		{"right-left leaf", []float64{1, -2}, 1, 0.75},
		{"tie goes to class 0", []float64{1, 0}, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels, err := tree.Predict(row(tt.x...))
			require.NoError(t, err)
			assert.Equal(t, tt.label, labels[0])

			proba, err := tree.PredictProba(row(tt.x...))
			require.NoError(t, err)
			assert.InDelta(t, tt.p, proba.At(0, 1), 1e-12)
			assert.InDelta(t, 1.0, proba.At(0, 0)+proba.At(0, 1), 1e-12)
		})
	}

	_, err = tree.Predict(row(1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewDecisionTree_Invalid(t *testing.T) {
	tests := map[string][]TreeNode{
		"no nodes":          nil,
		"leaf without data": {{Left: -1, Right: -1, Value: []float64{0, 0}}},
		"leaf wrong width":  {{Left: -1, Right: -1, Value: []float64{1, 2, 3}}},
		"feature out of range": {
			{Feature: 5, Left: 1, Right: 2},
			{Left: -1, Right: -1, Value: []float64{1, 0}},
			{Left: -1, Right: -1, Value: []float64{0, 1}},
		},
		"cycle": {
			{Feature: 0, Left: 0, Right: 1},
			{Left: -1, Right: -1, Value: []float64{0, 1}},
		},
		"half leaf": {
			{Feature: 0, Left: 1, Right: -1},
			{Left: -1, Right: -1, Value: []float64{0, 1}},
		},
	}

	for name, nodes := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewDecisionTree(2, nodes)
			assert.ErrorIs(t, err, ErrInvalidArtifact)
		})
	}
}

func TestLoad(t *testing.T) {
	store, err := Load(Paths{
		Scaler:     writeArtifact(t, "scaler.json", standardScalerJSON),
		Classifier: writeArtifact(t, "model.json", logisticJSON),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, store.NumFeatures())
	assert.Equal(t, ScalerKindStandard, store.Scaler().Kind())
	assert.Equal(t, ClassifierKindLogisticRegression, store.Classifier().Kind())

	artifacts := store.Artifacts()
	require.Len(t, artifacts, 2)
	assert.Equal(t, ArtifactRoleScaler, artifacts[0].Role)
	assert.Equal(t, ArtifactRoleClassifier, artifacts[1].Role)
	assert.Equal(t, "logistic_regression", artifacts[1].Kind)
	assert.NotEmpty(t, artifacts[0].Path)
	assert.False(t, artifacts[0].LoadedAt.IsZero())
}

func TestLoad_YAMLTree(t *testing.T) {
	store, err := Load(Paths{
		Scaler:     writeArtifact(t, "scaler.json", standardScalerJSON),
		Classifier: writeArtifact(t, "model.yaml", treeYAML),
	})
	require.NoError(t, err)
	assert.Equal(t, ClassifierKindDecisionTree, store.Classifier().Kind())
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name       string
		scaler     func(t *testing.T) string
		classifier func(t *testing.T) string
		target     error
	}{
		{
			name:       "missing scaler",
			scaler:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "scaler.json") },
			classifier: func(t *testing.T) string { return writeArtifact(t, "model.json", logisticJSON) },
			target:     os.ErrNotExist,
		},
		{
			name:       "corrupt classifier",
			scaler:     func(t *testing.T) string { return writeArtifact(t, "scaler.json", standardScalerJSON) },
			classifier: func(t *testing.T) string { return writeArtifact(t, "model.json", "{not json") },
			target:     ErrInvalidArtifact,
		},
		{
			name:       "pickle is not a portable format",
			scaler:     func(t *testing.T) string { return writeArtifact(t, "scaler.pkl", "\x80\x04") },
			classifier: func(t *testing.T) string { return writeArtifact(t, "model.json", logisticJSON) },
			target:     ErrUnknownFormat,
		},
		{
			name: "unknown scaler kind",
			scaler: func(t *testing.T) string {
				return writeArtifact(t, "scaler.json", `{"kind":"robust","n_features":2,"params":{}}`)
			},
			classifier: func(t *testing.T) string { return writeArtifact(t, "model.json", logisticJSON) },
			target:     ErrInvalidArtifact,
		},
		{
			name:   "coef length disagrees with n_features",
			scaler: func(t *testing.T) string { return writeArtifact(t, "scaler.json", standardScalerJSON) },
			classifier: func(t *testing.T) string {
				return writeArtifact(t, "model.json", `{"kind":"logistic_regression","n_features":2,"params":{"classes":[0,1],"coef":[1],"intercept":0}}`)
			},
			target: ErrInvalidArtifact,
		},
		{
			name:   "non-binary classes",
			scaler: func(t *testing.T) string { return writeArtifact(t, "scaler.json", standardScalerJSON) },
			classifier: func(t *testing.T) string {
				return writeArtifact(t, "model.json", `{"kind":"logistic_regression","n_features":2,"params":{"classes":[1,2],"coef":[1,1],"intercept":0}}`)
			},
			target: ErrInvalidArtifact,
		},
		{
			name:   "artifacts fitted on different widths",
			scaler: func(t *testing.T) string { return writeArtifact(t, "scaler.json", standardScalerJSON) },
			classifier: func(t *testing.T) string {
				return writeArtifact(t, "model.json", `{"kind":"logistic_regression","n_features":3,"params":{"classes":[0,1],"coef":[1,1,1],"intercept":0}}`)
			},
			target: ErrInvalidArtifact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Paths{Scaler: tt.scaler(t), Classifier: tt.classifier(t)})
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
