// internal/models/price_record.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceRecord is one contiguous period during which a store listing held a
// single price. A record with a null end date is open; a listing has at most
// one open record at any time, and its records never overlap.
type PriceRecord struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	StoreListingID uuid.UUID  `json:"store_listing_id" gorm:"type:uuid;not null;index"`
	Price          float64    `json:"price" gorm:"not null"`
	StartDate      time.Time  `json:"start_date" gorm:"type:date;not null"`
	EndDate        *time.Time `json:"end_date" gorm:"type:date"`
	CreatedAt      time.Time  `json:"created_at"`

	StoreListing StoreListing `json:"-" gorm:"foreignKey:StoreListingID"`
}

func (r *PriceRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Open reports whether the record is the listing's current price period.
func (r *PriceRecord) Open() bool {
	return r.EndDate == nil
}
