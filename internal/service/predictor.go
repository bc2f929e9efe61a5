package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/ekisa-team/defaultrisk/internal/model"
)

// probabilityPlaces is the number of decimals kept in DefaultProbability.
const probabilityPlaces = 4

// defaultClassColumn is the probability column of the positive (default) class.
const defaultClassColumn = 1

// Result is the outcome of a single prediction.
type Result struct {
	Prediction         int     `json:"prediction"`
	DefaultProbability float64 `json:"default_probability"`
}

// Predictor is a service abstraction over the fitted scaler and classifier.
type Predictor struct {
	store *model.Store
}

// NewPredictor creates a new Predictor backed by store.
func NewPredictor(store *model.Store) *Predictor {
	return &Predictor{store: store}
}

// NumFeatures returns the feature vector length the artifacts were fitted on.
func (p *Predictor) NumFeatures() int {
	return p.store.NumFeatures()
}

// Predict reshapes features into a single-row matrix, scales it, and
// classifies it. A vector whose length differs from the fitted width fails
// with model.ErrShapeMismatch.
func (p *Predictor) Predict(ctx context.Context, features []float64) (*Result, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("predict: %w: empty feature vector", model.ErrShapeMismatch)
	}

	x := mat.NewDense(1, len(features), append([]float64(nil), features...))

	scaled, err := p.store.Scaler().Transform(x)
	if err != nil {
		return nil, fmt.Errorf("predict: scale: %w", err)
	}

	labels, err := p.store.Classifier().Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("predict: classify: %w", err)
	}

	proba, err := p.store.Classifier().PredictProba(scaled)
	if err != nil {
		return nil, fmt.Errorf("predict: probabilities: %w", err)
	}

	probability, err := roundProbability(proba.At(0, defaultClassColumn))
	if err != nil {
		return nil, fmt.Errorf("predict: round probability: %w", err)
	}

	result := &Result{
		Prediction:         labels[0],
		DefaultProbability: probability,
	}

	slog.DebugContext(ctx, "Prediction computed",
		"n_features", len(features),
		"prediction", result.Prediction,
		"default_probability", result.DefaultProbability,
	)

	return result, nil
}

// roundProbability rounds p to probabilityPlaces decimals from its exact
// binary value, so 0.50005 (stored just below the tie) rounds down.
func roundProbability(p float64) (float64, error) {
	return strconv.ParseFloat(strconv.FormatFloat(p, 'f', probabilityPlaces, 64), 64)
}
