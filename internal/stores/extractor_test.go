// internal/stores/extractor_test.go
package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricebyte/catalog-backend/internal/models"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("coles"))
	assert.True(t, Supported("Coles"))
	assert.True(t, Supported("ALDI"))
	assert.True(t, Supported("woolworths"))
	assert.False(t, Supported("costco"))
	assert.False(t, Supported(""))
}

func TestExtractUnknownStore(t *testing.T) {
	_, err := Extract("costco", models.JSONB{"name": "Anything"})
	assert.Error(t, err)
}

func TestExtractColes(t *testing.T) {
	details := models.JSONB{
		"name":        "Organic Free Range Eggs",
		"brand":       "Farmer Brown",
		"size":        "700g",
		"description": "Free range eggs from certified organic farms.",
		"merchandiseHeir": map[string]interface{}{
			"category": "Dairy, Eggs & Fridge",
		},
		"images": []interface{}{
			map[string]interface{}{
				"full": map[string]interface{}{
					"path": "/images/eggs.jpg",
				},
			},
		},
	}

	tuple, err := Extract("coles", details)
	require.NoError(t, err)

	assert.Equal(t, "Organic Free Range Eggs", tuple.Name)
	assert.Equal(t, "Farmer Brown", tuple.Brand)
	assert.Equal(t, "Dairy, Eggs & Fridge", tuple.Category)
	assert.Equal(t, "700g", tuple.Size)
	assert.Equal(t, "g", tuple.Unit)
	assert.Equal(t, "https://shop.coles.com.au/images/eggs.jpg", tuple.ImageURL)
	assert.Equal(t, "Free range eggs from certified organic farms.", tuple.Description)
}

func TestExtractColesOnlineHeirsFallback(t *testing.T) {
	details := models.JSONB{
		"name": "Sourdough Loaf",
		"onlineHeirs": []interface{}{
			map[string]interface{}{"category": "Bakery"},
		},
	}

	tuple, err := Extract("coles", details)
	require.NoError(t, err)
	assert.Equal(t, "Bakery", tuple.Category)
}

func TestExtractColesAbsoluteImageURL(t *testing.T) {
	details := models.JSONB{
		"name": "Sourdough Loaf",
		"images": []interface{}{
			map[string]interface{}{
				"full": map[string]interface{}{
					"path": "https://cdn.example.com/loaf.jpg",
				},
			},
		},
	}

	tuple, err := Extract("coles", details)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/loaf.jpg", tuple.ImageURL)
}

func TestExtractAldiUsesWeightField(t *testing.T) {
	details := models.JSONB{
		"name":     "Organic Free Range Eggs",
		"brand":    "Farmer Brown",
		"category": "dairy",
		"weight":   "12pk",
	}

	tuple, err := Extract("aldi", details)
	require.NoError(t, err)

	assert.Equal(t, "Organic Free Range Eggs", tuple.Name)
	assert.Equal(t, "12pk", tuple.Size)
	assert.Equal(t, "pack", tuple.Unit)
}

func TestExtractWoolworths(t *testing.T) {
	details := models.JSONB{
		"name":      "Full Cream Milk",
		"brand":     "Devondale",
		"category":  "dairy",
		"size":      "2L",
		"image_url": "https://cdn.woolworths.media/milk.jpg",
	}

	tuple, err := Extract("woolworths", details)
	require.NoError(t, err)

	assert.Equal(t, "Full Cream Milk", tuple.Name)
	assert.Equal(t, "2L", tuple.Size)
	assert.Equal(t, "l", tuple.Unit)
	assert.Equal(t, "https://cdn.woolworths.media/milk.jpg", tuple.ImageURL)
}

func TestExtractMissingFields(t *testing.T) {
	tuple, err := Extract("woolworths", models.JSONB{})
	require.NoError(t, err)

	assert.Empty(t, tuple.Name)
	assert.Empty(t, tuple.Size)
	assert.Empty(t, tuple.Unit)
}
