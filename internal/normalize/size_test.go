// internal/normalize/size_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input     string
		magnitude float64
		hasValue  bool
		unit      Unit
	}{
		{"500g", 500, true, UnitGram},
		{"1kg", 1, true, UnitKilogram},
		{"0.5kg", 0.5, true, UnitKilogram},
		{"600ml", 600, true, UnitMillilitre},
		{"2L", 2, true, UnitLitre},
		{"1.25l", 1.25, true, UnitLitre},
		{"12 pack", 12, true, UnitPack},
		{"12pk", 12, true, UnitPack},
		{"large", 0, false, UnitUnknown},
		{"", 0, false, UnitUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := ParseSize(tt.input)
			assert.Equal(t, tt.unit, s.Unit)
			assert.Equal(t, tt.hasValue, s.HasValue)
			if tt.hasValue {
				assert.InDelta(t, tt.magnitude, s.Magnitude, 1e-9)
			}
		})
	}
}

func TestParseSizeUnitPrecedence(t *testing.T) {
	// kg wins over the embedded g, ml over the embedded l.
	assert.Equal(t, UnitKilogram, ParseSize("2kg").Unit)
	assert.Equal(t, UnitMillilitre, ParseSize("375ml").Unit)
}

func TestCompatibleUnits(t *testing.T) {
	assert.True(t, CompatibleUnits(UnitGram, UnitKilogram))
	assert.True(t, CompatibleUnits(UnitMillilitre, UnitLitre))
	assert.False(t, CompatibleUnits(UnitGram, UnitMillilitre))
	assert.False(t, CompatibleUnits(UnitPack, UnitPack))
	assert.False(t, CompatibleUnits(UnitPack, UnitGram))
	assert.False(t, CompatibleUnits(UnitUnknown, UnitUnknown))
}

func TestToBase(t *testing.T) {
	v, ok := ToBase(1.5, UnitKilogram)
	assert.True(t, ok)
	assert.InDelta(t, 1500, v, 1e-9)

	v, ok = ToBase(2, UnitLitre)
	assert.True(t, ok)
	assert.InDelta(t, 2000, v, 1e-9)

	_, ok = ToBase(12, UnitPack)
	assert.False(t, ok)
}
