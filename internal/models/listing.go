// internal/models/listing.go
package models

import "github.com/google/uuid"

// StoreListing is one retailer's view of a canonical product. A listing is
// identified by (store, store_product_id) and belongs to exactly one
// canonical product. Re-ingestion of the same pair updates the listing in
// place and may reassign it to a different canonical product.
type StoreListing struct {
	BaseModel
	Store          string    `json:"store" gorm:"size:50;not null;uniqueIndex:idx_store_listing"`
	StoreProductID string    `json:"store_product_id" gorm:"size:100;not null;uniqueIndex:idx_store_listing"`
	ProductID      uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	StoreName      string    `json:"store_name" gorm:"type:text;not null"`
	CurrentPrice   float64   `json:"current_price"`
	ProductURL     string    `json:"product_url" gorm:"type:text"`
	Availability   bool      `json:"availability" gorm:"default:true"`
	RawDetails     JSONB     `json:"raw_details,omitempty" gorm:"type:jsonb"`

	// Relationships
	Product      CanonicalProduct `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	PriceRecords []PriceRecord    `json:"price_records,omitempty" gorm:"foreignKey:StoreListingID"`
}
