package mapsafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat64s(t *testing.T) {
	m := map[string]any{
		"features": []any{0.5, 1, int64(2)},
		"mixed":    []any{0.5, "x"},
		"scalar":   1.0,
		"empty":    []any{},
	}

	got, ok := Float64s(m, "features")
	assert.True(t, ok)
	assert.Equal(t, []float64{0.5, 1, 2}, got)

	_, ok = Float64s(m, "mixed")
	assert.False(t, ok)

	_, ok = Float64s(m, "scalar")
	assert.False(t, ok)

	_, ok = Float64s(m, "missing")
	assert.False(t, ok)

	got, ok = Float64s(m, "empty")
	assert.True(t, ok)
	assert.Empty(t, got)
}
