// internal/models/product.go
package models

// CanonicalProduct is the deduplicated product identity that store listings
// attach to. It is created only when the matcher finds no existing product
// above threshold. Name, brand and size identify the product and are never
// changed after creation; image and description may be backfilled when a
// later listing supplies them.
type CanonicalProduct struct {
	BaseModel
	Name        string `json:"name" gorm:"type:text;not null"`
	Brand       string `json:"brand" gorm:"type:text"`
	Category    string `json:"category" gorm:"type:text;index"`
	Size        string `json:"size" gorm:"type:text"`
	Unit        string `json:"unit" gorm:"size:10"`
	ImageURL    string `json:"image_url" gorm:"type:text"`
	Description string `json:"description" gorm:"type:text"`

	// Relationships
	StoreListings []StoreListing `json:"store_listings,omitempty" gorm:"foreignKey:ProductID"`
}
