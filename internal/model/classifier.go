package model

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ClassifierKind identifies a fitted classifier implementation.
type ClassifierKind string

const (
	// ClassifierKindLogisticRegression is a binary logistic regression.
	ClassifierKindLogisticRegression ClassifierKind = "logistic_regression"

	// ClassifierKindDecisionTree is a binary decision tree with class-count leaves.
	ClassifierKindDecisionTree ClassifierKind = "decision_tree"
)

// binaryClasses is the only label set accepted: 0 is repaid, 1 is default.
var binaryClasses = []int{0, 1}

// Classifier is a fitted binary classifier. Implementations are immutable
// after construction and safe for concurrent use.
type Classifier interface {
	// Kind returns the classifier kind.
	Kind() ClassifierKind

	// NumFeatures returns the dimensionality the classifier was fitted on.
	NumFeatures() int

	// Classes returns the class labels in probability column order.
	Classes() []int

	// Predict returns one class label per row of x.
	Predict(x mat.Matrix) ([]int, error)

	// PredictProba returns a rows×2 matrix of class probabilities.
	PredictProba(x mat.Matrix) (*mat.Dense, error)
}

type classifierDocument struct {
	Kind      ClassifierKind   `json:"kind"       yaml:"kind"`
	NFeatures int              `json:"n_features" yaml:"n_features"`
	Params    classifierParams `json:"params"     yaml:"params"`
}

type classifierParams struct {
	Classes   []int      `json:"classes"             yaml:"classes"`
	Coef      []float64  `json:"coef,omitempty"      yaml:"coef,omitempty"`
	Nodes     []TreeNode `json:"nodes,omitempty"     yaml:"nodes,omitempty"`
	Intercept float64    `json:"intercept,omitempty" yaml:"intercept,omitempty"`
}

// LoadClassifier reads a fitted classifier artifact from a JSON or YAML file.
func LoadClassifier(path string) (Classifier, error) {
	var doc classifierDocument
	if err := decodeArtifact(path, classifierSchema, &doc); err != nil {
		return nil, fmt.Errorf("classifier %s: %w", path, err)
	}

	c, err := newClassifier(doc)
	if err != nil {
		return nil, fmt.Errorf("classifier %s: %w", path, err)
	}
	return c, nil
}

func newClassifier(doc classifierDocument) (Classifier, error) {
	if !slices.Equal(doc.Params.Classes, binaryClasses) {
		return nil, fmt.Errorf("%w: classes must be %v, got %v", ErrInvalidArtifact, binaryClasses, doc.Params.Classes)
	}

	switch doc.Kind {
	case ClassifierKindLogisticRegression:
		return NewLogisticRegression(doc.NFeatures, doc.Params.Coef, doc.Params.Intercept)
	case ClassifierKindDecisionTree:
		return NewDecisionTree(doc.NFeatures, doc.Params.Nodes)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, doc.Kind)
	}
}

// LogisticRegression is a fitted binary logistic regression. The probability
// of the positive class is sigmoid(coef·x + intercept).
type LogisticRegression struct {
	coef      *mat.VecDense
	intercept float64
}

// NewLogisticRegression creates a LogisticRegression from fitted coefficients.
func NewLogisticRegression(nFeatures int, coef []float64, intercept float64) (*LogisticRegression, error) {
	if nFeatures < 1 {
		return nil, fmt.Errorf("%w: n_features must be positive", ErrInvalidArtifact)
	}
	if err := checkLen("coef", coef, nFeatures); err != nil {
		return nil, err
	}

	return &LogisticRegression{
		coef:      mat.NewVecDense(nFeatures, append([]float64(nil), coef...)),
		intercept: intercept,
	}, nil
}

// Kind returns ClassifierKindLogisticRegression.
func (m *LogisticRegression) Kind() ClassifierKind { return ClassifierKindLogisticRegression }

// NumFeatures returns the fitted dimensionality.
func (m *LogisticRegression) NumFeatures() int { return m.coef.Len() }

// Classes returns [0 1].
func (m *LogisticRegression) Classes() []int { return slices.Clone(binaryClasses) }

// decision returns coef·x + intercept for every row of x.
func (m *LogisticRegression) decision(x mat.Matrix) (*mat.VecDense, error) {
	r, c := x.Dims()
	if c != m.coef.Len() {
		return nil, fmt.Errorf("%w: classifier expects %d features, got %d", ErrShapeMismatch, m.coef.Len(), c)
	}

	scores := mat.NewVecDense(r, nil)
	scores.MulVec(x, m.coef)
	for i := range r {
		scores.SetVec(i, scores.AtVec(i)+m.intercept)
	}

	return scores, nil
}

// Predict returns 1 for rows with a positive decision value, 0 otherwise.
func (m *LogisticRegression) Predict(x mat.Matrix) ([]int, error) {
	scores, err := m.decision(x)
	if err != nil {
		return nil, err
	}

	labels := make([]int, scores.Len())
	for i := range labels {
		if scores.AtVec(i) > 0 {
			labels[i] = binaryClasses[1]
		} else {
			labels[i] = binaryClasses[0]
		}
	}

	return labels, nil
}

// PredictProba returns [1-p, p] per row.
func (m *LogisticRegression) PredictProba(x mat.Matrix) (*mat.Dense, error) {
	scores, err := m.decision(x)
	if err != nil {
		return nil, err
	}

	proba := mat.NewDense(scores.Len(), len(binaryClasses), nil)
	for i := range scores.Len() {
		p := sigmoid(scores.AtVec(i))
		proba.Set(i, 0, 1-p)
		proba.Set(i, 1, p)
	}

	return proba, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
