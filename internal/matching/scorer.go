// internal/matching/scorer.go
package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/pricebyte/catalog-backend/internal/normalize"
)

// Attributes is the normalized comparison tuple for one side of a match.
type Attributes struct {
	Name     string
	Brand    string
	Category string
	Size     string
}

// Weights controls how much each field contributes to the combined score.
// Name and size dominate because they are the strongest identity signals;
// category is weakest because retailer taxonomies disagree heavily even for
// identical products.
type Weights struct {
	Name     float64
	Brand    float64
	Category float64
	Size     float64
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		Name:     0.5,
		Brand:    0.25,
		Category: 0.05,
		Size:     0.2,
	}
}

// Validate rejects weight sets that do not sum to 1.0; the sum invariant is
// what keeps Score bounded by [0,1].
func (w Weights) Validate() error {
	sum := w.Name + w.Brand + w.Category + w.Size
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("match weights must sum to 1.0, got %v", sum)
	}
	if w.Name < 0 || w.Brand < 0 || w.Category < 0 || w.Size < 0 {
		return fmt.Errorf("match weights must be non-negative")
	}
	return nil
}

// Score combines name, brand, category and size similarity into a single
// weighted score in [0,1]. Absence of a signal on both sides counts as
// agreement (1.0), absence on one side as partial information, never as
// disagreement.
func (w Weights) Score(a, b Attributes) float64 {
	nameSim := TokenSortRatio(normalize.NameKey(a.Name), normalize.NameKey(b.Name))

	brandSim := 1.0
	if a.Brand != "" && b.Brand != "" {
		brandSim = TokenSortRatio(normalize.BrandKey(a.Brand), normalize.BrandKey(b.Brand))
	} else if a.Brand != "" || b.Brand != "" {
		brandSim = 0.5
	}

	categorySim := 1.0
	if a.Category != "" && b.Category != "" {
		categorySim = TokenSortRatio(strings.ToLower(a.Category), strings.ToLower(b.Category))
	} else if a.Category != "" || b.Category != "" {
		categorySim = 0.6
	}

	sizeSim := 1.0
	if a.Size != "" && b.Size != "" {
		sizeSim = CompareSizes(a.Size, b.Size)
	} else if a.Size != "" || b.Size != "" {
		sizeSim = 0.7
	}

	return w.Name*nameSim + w.Brand*brandSim + w.Category*categorySim + w.Size*sizeSim
}
