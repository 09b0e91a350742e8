// internal/matching/size.go
package matching

import "github.com/pricebyte/catalog-backend/internal/normalize"

// CompareSizes scores two human-written size strings in [0,1] with a tiered
// policy: exact textual equality is cheapest and most reliable; a unit-aware
// magnitude ratio handles "500g" vs "0.5kg" exactly; a plain character
// similarity is the last resort for non-numeric descriptors like "large" vs
// "family pack". Missing size text on either side scores 0.5.
func CompareSizes(size1, size2 string) float64 {
	if size1 == "" || size2 == "" {
		return 0.5
	}

	clean1 := normalize.Clean(size1)
	clean2 := normalize.Clean(size2)

	if clean1 == clean2 {
		return 1.0
	}

	parsed1 := normalize.ParseSize(clean1)
	parsed2 := normalize.ParseSize(clean2)

	if parsed1.HasValue && parsed2.HasValue {
		if parsed1.Unit == parsed2.Unit {
			return magnitudeRatio(parsed1.Magnitude, parsed2.Magnitude)
		}

		if normalize.CompatibleUnits(parsed1.Unit, parsed2.Unit) {
			base1, ok1 := normalize.ToBase(parsed1.Magnitude, parsed1.Unit)
			base2, ok2 := normalize.ToBase(parsed2.Magnitude, parsed2.Unit)
			if ok1 && ok2 {
				return magnitudeRatio(base1, base2)
			}
		}
	}

	return Ratio(clean1, clean2)
}

// magnitudeRatio is min/max: 1.0 for equal sizes, shrinking as they diverge.
func magnitudeRatio(a, b float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b == 0 {
		return 1.0
	}
	return a / b
}
