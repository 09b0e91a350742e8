// internal/stores/extractor.go
package stores

import (
	"fmt"
	"strings"

	"github.com/pricebyte/catalog-backend/internal/models"
	"github.com/pricebyte/catalog-backend/internal/normalize"
)

// Tuple is the normalized view of one retailer's raw product payload. The
// matching and price-history core depends only on this tuple, never on
// store-specific payload shapes.
type Tuple struct {
	Name        string
	Brand       string
	Category    string
	Size        string
	Unit        string
	ImageURL    string
	Description string
}

// ExtractFunc turns one store's raw payload into a Tuple.
type ExtractFunc func(details models.JSONB) Tuple

// Store identifiers are matched case-insensitively.
var extractors = map[string]ExtractFunc{
	"coles":      extractColes,
	"aldi":       extractAldi,
	"woolworths": extractWoolworths,
}

// Extract dispatches to the store's extractor. Unknown stores are an input
// error surfaced before matching runs.
func Extract(store string, details models.JSONB) (Tuple, error) {
	extract, ok := extractors[strings.ToLower(store)]
	if !ok {
		return Tuple{}, fmt.Errorf("no extractor registered for store %q", store)
	}
	return extract(details), nil
}

// Supported reports whether a store has a registered extractor.
func Supported(store string) bool {
	_, ok := extractors[strings.ToLower(store)]
	return ok
}

func extractColes(details models.JSONB) Tuple {
	t := Tuple{
		Name:        getString(details, "name"),
		Brand:       getString(details, "brand"),
		Size:        getString(details, "size"),
		Description: getString(details, "description"),
	}

	// Coles nests the category under one of two merchandising hierarchies.
	if heir, ok := details["merchandiseHeir"].(map[string]interface{}); ok {
		t.Category = getString(heir, "category")
	} else if heirs, ok := details["onlineHeirs"].([]interface{}); ok && len(heirs) > 0 {
		if heir, ok := heirs[0].(map[string]interface{}); ok {
			t.Category = getString(heir, "category")
		}
	}

	if images, ok := details["images"].([]interface{}); ok && len(images) > 0 {
		if image, ok := images[0].(map[string]interface{}); ok {
			if full, ok := image["full"].(map[string]interface{}); ok {
				if path := getString(full, "path"); path != "" {
					if strings.HasPrefix(path, "http") {
						t.ImageURL = path
					} else {
						t.ImageURL = "https://shop.coles.com.au" + path
					}
				}
			}
		}
	}

	t.Unit = unitOf(t.Size)
	return t
}

func extractAldi(details models.JSONB) Tuple {
	t := Tuple{
		Name:        getString(details, "name"),
		Brand:       getString(details, "brand"),
		Category:    getString(details, "category"),
		Size:        getString(details, "weight"),
		ImageURL:    getString(details, "image_url"),
		Description: getString(details, "description"),
	}
	t.Unit = unitOf(t.Size)
	return t
}

func extractWoolworths(details models.JSONB) Tuple {
	t := Tuple{
		Name:        getString(details, "name"),
		Brand:       getString(details, "brand"),
		Category:    getString(details, "category"),
		Size:        getString(details, "size"),
		ImageURL:    getString(details, "image_url"),
		Description: getString(details, "description"),
	}
	t.Unit = unitOf(t.Size)
	return t
}

func unitOf(size string) string {
	if size == "" {
		return ""
	}
	if unit := normalize.ParseSize(size).Unit; unit != normalize.UnitUnknown {
		return string(unit)
	}
	return ""
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
