// internal/services/price_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pricebyte/catalog-backend/internal/database"
	"github.com/pricebyte/catalog-backend/internal/models"
)

// PriceService maintains each listing's price timeline as a small state
// machine: a record is OPEN (null end date) or CLOSED. First sight opens a
// record; a price change closes the open record and opens a new one in the
// same transaction; an unchanged price is a no-op. After any transition
// exactly one record per listing is open.
type PriceService struct {
	db         *gorm.DB
	maxRetries int
	now        func() time.Time
}

func NewPriceService(db *gorm.DB, maxRetries int) *PriceService {
	return &PriceService{
		db:         db,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// today returns the current date truncated to day granularity; price records
// are date-bounded, not timestamp-bounded.
func (s *PriceService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartTimeline opens the first price record for a freshly created listing.
func (s *PriceService) StartTimeline(tx *gorm.DB, listingID uuid.UUID, price float64) (*models.PriceRecord, error) {
	record := &models.PriceRecord{
		StoreListingID: listingID,
		Price:          price,
		StartDate:      s.today(),
	}

	if err := tx.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to open price record: %w", err)
	}

	return record, s.assertOneOpen(tx, listingID)
}

// Observe applies the ingestion-path transition for an observed price on an
// existing listing. An unchanged price does nothing (idempotent
// re-ingestion); a changed price closes the open record and opens a new one,
// updating the listing's current price. Both effects share the caller's
// transaction.
func (s *PriceService) Observe(tx *gorm.DB, listing *models.StoreListing, price float64) (bool, *models.PriceRecord, error) {
	if listing.CurrentPrice == price {
		return false, nil, nil
	}

	today := s.today()

	if err := tx.Model(&models.PriceRecord{}).
		Where("store_listing_id = ? AND end_date IS NULL", listing.ID).
		Update("end_date", today).Error; err != nil {
		return false, nil, fmt.Errorf("failed to close price record: %w", err)
	}

	record := &models.PriceRecord{
		StoreListingID: listing.ID,
		Price:          price,
		StartDate:      today,
	}
	if err := tx.Create(record).Error; err != nil {
		return false, nil, fmt.Errorf("failed to open price record: %w", err)
	}

	if err := tx.Model(listing).Update("current_price", price).Error; err != nil {
		return false, nil, fmt.Errorf("failed to update listing price: %w", err)
	}
	listing.CurrentPrice = price

	return true, record, s.assertOneOpen(tx, listing.ID)
}

// PriceUpdate is the result of an explicit price update.
type PriceUpdate struct {
	Changed      bool      `json:"changed"`
	HistoryID    uuid.UUID `json:"history_id"`
	OldPrice     float64   `json:"old_price"`
	NewPrice     float64   `json:"new_price"`
	StoreListing string    `json:"store"`
	StoreProduct string    `json:"store_product_id"`
}

// RecordPrice applies an explicit price update to a listing. Unlike the
// ingestion path, a request whose new price equals the current price is
// rejected with ErrNoOp.
func (s *PriceService) RecordPrice(listingID uuid.UUID, newPrice float64) (*PriceUpdate, error) {
	if newPrice < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	var update *PriceUpdate

	err := database.WithRetry(s.db, s.maxRetries, func(tx *gorm.DB) error {
		var listing models.StoreListing
		if err := tx.First(&listing, "id = ?", listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: listing %s", ErrNotFound, listingID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := database.LockListing(tx, listing.Store, listing.StoreProductID); err != nil {
			return fmt.Errorf("failed to lock listing: %w", err)
		}

		// Re-read under the lock; a racing writer may have moved the price.
		if err := tx.First(&listing, "id = ?", listingID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		if listing.CurrentPrice == newPrice {
			return fmt.Errorf("%w: new price %.2f equals current price", ErrNoOp, newPrice)
		}

		oldPrice := listing.CurrentPrice
		changed, record, err := s.Observe(tx, &listing, newPrice)
		if err != nil {
			return err
		}

		update = &PriceUpdate{
			Changed:      changed,
			HistoryID:    record.ID,
			OldPrice:     oldPrice,
			NewPrice:     newPrice,
			StoreListing: listing.Store,
			StoreProduct: listing.StoreProductID,
		}
		return nil
	})

	if err != nil {
		if database.IsConflict(err) {
			return nil, fmt.Errorf("%w: concurrent price update for listing %s", ErrConflict, listingID)
		}
		return nil, err
	}

	return update, nil
}

// History returns a listing's full price timeline, newest first.
func (s *PriceService) History(listingID uuid.UUID) ([]models.PriceRecord, error) {
	var records []models.PriceRecord
	if err := s.db.Where("store_listing_id = ?", listingID).
		Order("start_date DESC, created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}
	return records, nil
}

// assertOneOpen makes the open-record invariant mechanically checkable:
// any transition leaving zero or multiple open records aborts the
// transaction instead of committing corrupt state.
func (s *PriceService) assertOneOpen(tx *gorm.DB, listingID uuid.UUID) error {
	var open int64
	if err := tx.Model(&models.PriceRecord{}).
		Where("store_listing_id = ? AND end_date IS NULL", listingID).
		Count(&open).Error; err != nil {
		return fmt.Errorf("failed to verify price timeline: %w", err)
	}

	if open != 1 {
		return fmt.Errorf("price timeline invariant violated for listing %s: %d open records", listingID, open)
	}
	return nil
}
