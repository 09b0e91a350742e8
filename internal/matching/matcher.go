// internal/matching/matcher.go
package matching

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/pricebyte/catalog-backend/internal/models"
	"github.com/pricebyte/catalog-backend/internal/normalize"
)

// DefaultThreshold is the minimum combined score for an incoming listing to
// be attached to an existing canonical product.
const DefaultThreshold = 0.91

// Matcher decides whether an incoming listing refers to an already-known
// canonical product. Matching is deterministic and pairwise; it is not
// transitive, and no attempt is made at global clustering.
type Matcher struct {
	Weights   Weights
	Threshold float64

	// Narrow restricts the candidate set to products sharing the incoming
	// normalized category. Only applied when the incoming record carries both
	// category and brand; blank fields disable narrowing so it can never
	// eliminate the best match for an under-specified record.
	Narrow bool
}

// Scored pairs a canonical product with its similarity against a query.
type Scored struct {
	Product models.CanonicalProduct
	Score   float64
}

func NewMatcher(weights Weights, threshold float64, narrow bool) *Matcher {
	return &Matcher{Weights: weights, Threshold: threshold, Narrow: narrow}
}

// Candidates returns the set of canonical products eligible for comparison,
// ordered by ascending id so ties always break the same way.
func (m *Matcher) Candidates(tx *gorm.DB, incoming Attributes) ([]models.CanonicalProduct, error) {
	query := tx.Model(&models.CanonicalProduct{}).Order("id ASC")

	if m.Narrow && incoming.Category != "" && incoming.Brand != "" {
		query = query.Where("category = ?", incoming.Category)
	}

	var candidates []models.CanonicalProduct
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	return candidates, nil
}

// Match scores every candidate against the incoming attributes and returns
// the best candidate at or above the threshold, or nil when the listing is a
// new product. A candidate replaces the running best only on a strictly
// greater score, so exact ties resolve to the first-seen candidate; callers
// must not depend on which of two equally-scored candidates wins.
func (m *Matcher) Match(tx *gorm.DB, incoming Attributes) (*models.CanonicalProduct, float64, error) {
	candidates, err := m.Candidates(tx, incoming)
	if err != nil {
		return nil, 0, err
	}

	var best *models.CanonicalProduct
	bestScore := 0.0

	for i := range candidates {
		candidate := &candidates[i]
		score := m.Weights.Score(Attributes{
			Name:     candidate.Name,
			Brand:    candidate.Brand,
			Category: candidate.Category,
			Size:     candidate.Size,
		}, incoming)

		if score > bestScore && score >= m.Threshold {
			bestScore = score
			best = candidate
		}
	}

	return best, bestScore, nil
}

// RankByName scores the full catalog against a free-text name query and
// returns it ordered by descending name similarity, ascending id for equal
// scores.
func (m *Matcher) RankByName(tx *gorm.DB, query string) ([]Scored, error) {
	var products []models.CanonicalProduct
	if err := tx.Model(&models.CanonicalProduct{}).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	queryKey := normalize.NameKey(query)

	ranked := make([]Scored, 0, len(products))
	for _, product := range products {
		ranked = append(ranked, Scored{
			Product: product,
			Score:   TokenSortRatio(queryKey, normalize.NameKey(product.Name)),
		})
	}

	// The slice is already id-ordered, so a stable sort keeps the secondary
	// order deterministic.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}
