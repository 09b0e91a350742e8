// internal/services/suite_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pricebyte/catalog-backend/internal/database"
	"github.com/pricebyte/catalog-backend/internal/matching"
	"github.com/pricebyte/catalog-backend/internal/models"
)

// fixedNow pins the clock so price record dates are deterministic.
var fixedNow = time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

var fixedToday = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*gorm.DB, *CatalogService, *PriceService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite gives every connection its own database; a single
	// connection keeps all transactions on the same one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))

	matcher := matching.NewMatcher(matching.DefaultWeights(), matching.DefaultThreshold, false)
	prices := NewPriceService(db, 3)
	prices.now = func() time.Time { return fixedNow }

	catalog := NewCatalogService(db, matcher, prices, 3)
	catalog.now = func() time.Time { return fixedNow }

	return db, catalog, prices
}

func colesEggs(price float64) *IngestRequest {
	return &IngestRequest{
		Store:          "coles",
		StoreProductID: "p1",
		Name:           "Organic Free Range Eggs",
		Price:          price,
		Details: models.JSONB{
			"name":  "Organic Free Range Eggs",
			"brand": "Farmer Brown",
			"size":  "12 pack",
		},
	}
}

func aldiEggs(price float64) *IngestRequest {
	return &IngestRequest{
		Store:          "aldi",
		StoreProductID: "p2",
		Name:           "Organic Free Range Eggs",
		Price:          price,
		Details: models.JSONB{
			"name":   "Organic Free Range Eggs",
			"brand":  "Farmer Brown",
			"weight": "12pk",
		},
	}
}

func woolworthsMilk(price float64) *IngestRequest {
	return &IngestRequest{
		Store:          "woolworths",
		StoreProductID: "m1",
		Name:           "Full Cream Milk",
		Price:          price,
		Details: models.JSONB{
			"name":     "Full Cream Milk",
			"brand":    "Devondale",
			"category": "dairy",
			"size":     "2L",
		},
	}
}
