package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ScalerKind identifies a fitted scaler implementation.
type ScalerKind string

const (
	// ScalerKindStandard removes the fitted mean and divides by the fitted scale.
	ScalerKindStandard ScalerKind = "standard"

	// ScalerKindMinMax maps features with x*scale + min.
	ScalerKindMinMax ScalerKind = "minmax"
)

// Scaler is a fitted feature transform. Implementations are immutable after
// construction and safe for concurrent use.
type Scaler interface {
	// Kind returns the scaler kind.
	Kind() ScalerKind

	// NumFeatures returns the dimensionality the scaler was fitted on.
	NumFeatures() int

	// Transform normalizes every row of x into a new matrix of the same shape.
	Transform(x mat.Matrix) (*mat.Dense, error)
}

type scalerDocument struct {
	Kind      ScalerKind   `json:"kind"       yaml:"kind"`
	NFeatures int          `json:"n_features" yaml:"n_features"`
	Params    scalerParams `json:"params"     yaml:"params"`
}

type scalerParams struct {
	WithMean *bool     `json:"with_mean,omitempty" yaml:"with_mean,omitempty"`
	WithStd  *bool     `json:"with_std,omitempty"  yaml:"with_std,omitempty"`
	Mean     []float64 `json:"mean,omitempty"      yaml:"mean,omitempty"`
	Scale    []float64 `json:"scale,omitempty"     yaml:"scale,omitempty"`
	Min      []float64 `json:"min,omitempty"       yaml:"min,omitempty"`
}

// LoadScaler reads a fitted scaler artifact from a JSON or YAML file.
func LoadScaler(path string) (Scaler, error) {
	var doc scalerDocument
	if err := decodeArtifact(path, scalerSchema, &doc); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}

	s, err := newScaler(doc)
	if err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	return s, nil
}

func newScaler(doc scalerDocument) (Scaler, error) {
	switch doc.Kind {
	case ScalerKindStandard:
		return NewStandardScaler(doc.NFeatures, doc.Params.Mean, doc.Params.Scale, boolOr(doc.Params.WithMean, true), boolOr(doc.Params.WithStd, true))
	case ScalerKindMinMax:
		return NewMinMaxScaler(doc.NFeatures, doc.Params.Min, doc.Params.Scale)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, doc.Kind)
	}
}

// StandardScaler standardizes features by removing the mean and scaling to unit variance.
type StandardScaler struct {
	mean      []float64
	scale     []float64
	nFeatures int
	withMean  bool
	withStd   bool
}

// NewStandardScaler creates a StandardScaler from fitted parameters.
// mean is ignored when withMean is false, scale when withStd is false.
func NewStandardScaler(nFeatures int, mean, scale []float64, withMean, withStd bool) (*StandardScaler, error) {
	if nFeatures < 1 {
		return nil, fmt.Errorf("%w: n_features must be positive", ErrInvalidArtifact)
	}

	s := &StandardScaler{nFeatures: nFeatures, withMean: withMean, withStd: withStd}

	if withMean {
		if err := checkLen("mean", mean, nFeatures); err != nil {
			return nil, err
		}
		s.mean = append([]float64(nil), mean...)
	}

	if withStd {
		if err := checkLen("scale", scale, nFeatures); err != nil {
			return nil, err
		}
		for i, v := range scale {
			if v == 0 {
				return nil, fmt.Errorf("%w: scale[%d] is zero", ErrInvalidArtifact, i)
			}
		}
		s.scale = append([]float64(nil), scale...)
	}

	return s, nil
}

// Kind returns ScalerKindStandard.
func (s *StandardScaler) Kind() ScalerKind { return ScalerKindStandard }

// NumFeatures returns the fitted dimensionality.
func (s *StandardScaler) NumFeatures() int { return s.nFeatures }

// Transform standardizes x.
func (s *StandardScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	r, c := x.Dims()
	if c != s.nFeatures {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", ErrShapeMismatch, s.nFeatures, c)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		if s.withMean {
			v -= s.mean[j]
		}
		if s.withStd {
			v /= s.scale[j]
		}
		return v
	}, x)

	return out, nil
}

// MinMaxScaler maps each feature into the fitted range with x*scale + min.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

// NewMinMaxScaler creates a MinMaxScaler from fitted parameters.
func NewMinMaxScaler(nFeatures int, mins, scale []float64) (*MinMaxScaler, error) {
	if nFeatures < 1 {
		return nil, fmt.Errorf("%w: n_features must be positive", ErrInvalidArtifact)
	}
	if err := checkLen("min", mins, nFeatures); err != nil {
		return nil, err
	}
	if err := checkLen("scale", scale, nFeatures); err != nil {
		return nil, err
	}

	return &MinMaxScaler{
		min:   append([]float64(nil), mins...),
		scale: append([]float64(nil), scale...),
	}, nil
}

// Kind returns ScalerKindMinMax.
func (s *MinMaxScaler) Kind() ScalerKind { return ScalerKindMinMax }

// NumFeatures returns the fitted dimensionality.
func (s *MinMaxScaler) NumFeatures() int { return len(s.min) }

// Transform rescales x.
func (s *MinMaxScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	r, c := x.Dims()
	if c != len(s.min) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", ErrShapeMismatch, len(s.min), c)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return v*s.scale[j] + s.min[j]
	}, x)

	return out, nil
}

func checkLen(name string, values []float64, want int) error {
	if len(values) != want {
		return fmt.Errorf("%w: %s has %d values, n_features is %d", ErrInvalidArtifact, name, len(values), want)
	}
	return nil
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
