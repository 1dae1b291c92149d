package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		min  float64
		max  float64
	}{
		{"identical", "acme corp", "acme corp", 1.0, 1.0},
		{"both empty", "", "", 1.0, 1.0},
		{"one empty", "acme", "", 0.0, 0.0},
		{"close variants", "acme corporation", "acme corp", 0.7, 1.0},
		{"unrelated", "acme", "zenith", 0.0, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Ratio(tt.a, tt.b)
			assert.GreaterOrEqual(t, r, tt.min)
			assert.LessOrEqual(t, r, tt.max)
		})
	}
}

func TestRatioSymmetricRange(t *testing.T) {
	r := Ratio("initech solutions", "initech")
	assert.Greater(t, r, 0.5)
	assert.LessOrEqual(t, r, 1.0)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "acme", normalizeName("Acme, Inc."))
	assert.Equal(t, "initech", normalizeName("  Initech LLC "))
	assert.Equal(t, "globex", normalizeName("Globex Corp"))
}
