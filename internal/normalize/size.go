// internal/normalize/size.go
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Unit is the normalized size unit vocabulary.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitLitre      Unit = "l"
	UnitMillilitre Unit = "ml"
	UnitPack       Unit = "pack"
	UnitUnknown    Unit = "unknown"
)

var numberPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// Size is the parsed form of a human-written size string.
type Size struct {
	Magnitude float64
	HasValue  bool
	Unit      Unit
}

// ParseSize parses a size string like "500g", "1.25L" or "12 pack" into a
// numeric magnitude and a unit. The first numeric token in the string is the
// magnitude; the unit is inferred by substring precedence (kg before g, ml
// before l, then pack/pk) and only when a magnitude is present, so purely
// descriptive sizes like "large" stay unknown.
func ParseSize(text string) Size {
	cleaned := Clean(text)

	s := Size{Unit: UnitUnknown}
	if m := numberPattern.FindString(cleaned); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			s.Magnitude = v
			s.HasValue = true
			s.Unit = inferUnit(cleaned)
		}
	}

	return s
}

// Clean lower-cases and trims a size string for comparison.
func Clean(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

func inferUnit(cleaned string) Unit {
	switch {
	case strings.Contains(cleaned, "kg"):
		return UnitKilogram
	case strings.Contains(cleaned, "ml"):
		return UnitMillilitre
	case strings.Contains(cleaned, "g"):
		return UnitGram
	case strings.Contains(cleaned, "l"):
		return UnitLitre
	case strings.Contains(cleaned, "pack") || strings.Contains(cleaned, "pk"):
		return UnitPack
	default:
		return UnitUnknown
	}
}

// CompatibleUnits reports whether two units measure the same quantity:
// {g, kg} for weight, {ml, l} for volume.
func CompatibleUnits(a, b Unit) bool {
	return (isWeight(a) && isWeight(b)) || (isVolume(a) && isVolume(b))
}

func isWeight(u Unit) bool { return u == UnitGram || u == UnitKilogram }
func isVolume(u Unit) bool { return u == UnitMillilitre || u == UnitLitre }

// ToBase converts a magnitude to the common base of its compatibility class:
// grams for weight, millilitres for volume. The second return is false for
// units with no base conversion (pack, unknown).
func ToBase(magnitude float64, unit Unit) (float64, bool) {
	switch unit {
	case UnitGram, UnitMillilitre:
		return magnitude, true
	case UnitKilogram, UnitLitre:
		return magnitude * 1000, true
	default:
		return 0, false
	}
}
