// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pricebyte/catalog-backend/internal/database"
	"github.com/pricebyte/catalog-backend/internal/matching"
	"github.com/pricebyte/catalog-backend/internal/models"
	"github.com/pricebyte/catalog-backend/internal/normalize"
	"github.com/pricebyte/catalog-backend/internal/stores"
	"github.com/pricebyte/catalog-backend/internal/utils"
)

const maxSearchLimit = 50

// CatalogService owns entity resolution: it decides whether an ingested
// store listing refers to a known canonical product, and keeps the listing
// and its price timeline consistent with that decision.
type CatalogService struct {
	db         *gorm.DB
	matcher    *matching.Matcher
	prices     *PriceService
	maxRetries int
	now        func() time.Time
}

type IngestRequest struct {
	Store          string       `json:"store" validate:"required"`
	StoreProductID string       `json:"id" validate:"required"`
	Name           string       `json:"name" validate:"required"`
	Price          float64      `json:"price" validate:"gte=0"`
	Details        models.JSONB `json:"details"`
}

// ResolveResult reports the matching decision for one ingested listing.
type ResolveResult struct {
	ProductID uuid.UUID `json:"product_id"`
	ListingID uuid.UUID `json:"listing_id"`
	Created   bool      `json:"created"`
	Action    string    `json:"action"` // "created" or "updated"
}

// SearchItem is one ranked search result.
type SearchItem struct {
	Product         models.CanonicalProduct `json:"product"`
	SimilarityScore float64                 `json:"similarity_score"`
}

// SearchResult is a ranked, paginated slice of the catalog.
type SearchResult struct {
	Results    []SearchItem `json:"results"`
	TotalCount int          `json:"total_count"`
	Offset     int          `json:"offset"`
	Limit      int          `json:"limit"`
	HasNext    bool         `json:"has_next"`
}

func NewCatalogService(db *gorm.DB, matcher *matching.Matcher, prices *PriceService, maxRetries int) *CatalogService {
	return &CatalogService{
		db:         db,
		matcher:    matcher,
		prices:     prices,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// Ingest resolves a raw store listing to a canonical product and records its
// price. The whole select-candidates → score → decide → write sequence runs
// in one transaction under advisory locks; on a write race the entire
// decision is retried from a fresh snapshot rather than patching partial
// state.
func (s *CatalogService) Ingest(req *IngestRequest) (*ResolveResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if !stores.Supported(req.Store) {
		return nil, fmt.Errorf("%w: no extractor registered for store %q", ErrValidation, req.Store)
	}

	tuple, err := stores.Extract(req.Store, req.Details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if tuple.Name == "" {
		tuple.Name = req.Name
	}

	incoming := matching.Attributes{
		Name:     tuple.Name,
		Brand:    tuple.Brand,
		Category: normalize.Category(tuple.Category),
		Size:     tuple.Size,
	}

	var result ResolveResult

	err = database.WithRetry(s.db, s.maxRetries, func(tx *gorm.DB) error {
		result = ResolveResult{}

		if err := database.LockListing(tx, req.Store, req.StoreProductID); err != nil {
			return fmt.Errorf("failed to lock listing: %w", err)
		}
		if err := database.LockMatchKey(tx, normalize.NameKey(incoming.Name)); err != nil {
			return fmt.Errorf("failed to lock match key: %w", err)
		}

		productID, created, err := s.resolveProduct(tx, incoming, tuple)
		if err != nil {
			return err
		}
		result.ProductID = productID
		result.Created = created

		listingID, action, err := s.upsertListing(tx, req, productID)
		if err != nil {
			return err
		}
		result.ListingID = listingID
		result.Action = action

		return nil
	})

	if err != nil {
		if database.IsConflict(err) {
			return nil, fmt.Errorf("%w: concurrent ingestion for %s/%s", ErrConflict, req.Store, req.StoreProductID)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"store":      req.Store,
		"listing":    req.StoreProductID,
		"product_id": result.ProductID,
		"action":     result.Action,
		"created":    result.Created,
	}).Info("Listing ingested")

	return &result, nil
}

// resolveProduct runs the matcher and either attaches to the winning
// candidate (backfilling missing image/description, never touching
// identity fields) or creates a new canonical product.
func (s *CatalogService) resolveProduct(tx *gorm.DB, incoming matching.Attributes, tuple stores.Tuple) (uuid.UUID, bool, error) {
	match, score, err := s.matcher.Match(tx, incoming)
	if err != nil {
		return uuid.Nil, false, err
	}

	if match != nil {
		updates := map[string]interface{}{"updated_at": s.now()}
		if match.ImageURL == "" && tuple.ImageURL != "" {
			updates["image_url"] = tuple.ImageURL
		}
		if match.Description == "" && tuple.Description != "" {
			updates["description"] = tuple.Description
		}
		if err := tx.Model(match).Updates(updates).Error; err != nil {
			return uuid.Nil, false, fmt.Errorf("failed to update product: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"product_id": match.ID,
			"score":      score,
		}).Debug("Matched existing canonical product")

		return match.ID, false, nil
	}

	product := &models.CanonicalProduct{
		Name:        incoming.Name,
		Brand:       tuple.Brand,
		Category:    incoming.Category,
		Size:        tuple.Size,
		Unit:        tuple.Unit,
		ImageURL:    tuple.ImageURL,
		Description: tuple.Description,
	}
	if err := tx.Create(product).Error; err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to create product: %w", err)
	}

	return product.ID, true, nil
}

func (s *CatalogService) upsertListing(tx *gorm.DB, req *IngestRequest, productID uuid.UUID) (uuid.UUID, string, error) {
	var listing models.StoreListing
	err := tx.Where("store = ? AND store_product_id = ?", req.Store, req.StoreProductID).
		First(&listing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		listing = models.StoreListing{
			Store:          req.Store,
			StoreProductID: req.StoreProductID,
			ProductID:      productID,
			StoreName:      req.Name,
			CurrentPrice:   req.Price,
			Availability:   true,
			RawDetails:     req.Details,
		}
		if err := tx.Create(&listing).Error; err != nil {
			return uuid.Nil, "", fmt.Errorf("failed to create listing: %w", err)
		}
		if _, err := s.prices.StartTimeline(tx, listing.ID, req.Price); err != nil {
			return uuid.Nil, "", err
		}
		return listing.ID, "created", nil
	}
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("database error: %w", err)
	}

	// Price transition first: Observe compares against the stored price.
	if _, _, err := s.prices.Observe(tx, &listing, req.Price); err != nil {
		return uuid.Nil, "", err
	}

	updates := map[string]interface{}{
		"product_id": productID,
		"store_name": req.Name,
		"updated_at": s.now(),
	}
	if req.Details != nil {
		updates["raw_details"] = req.Details
	}
	if err := tx.Model(&listing).Updates(updates).Error; err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to update listing: %w", err)
	}

	return listing.ID, "updated", nil
}

// Search ranks the catalog by name similarity against a free-text query,
// descending score with ascending id for equal scores.
func (s *CatalogService) Search(query string, offset, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", ErrValidation)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset cannot be negative", ErrValidation)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be greater than 0", ErrValidation)
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	ranked, err := s.matcher.RankByName(s.db, query)
	if err != nil {
		return nil, err
	}

	total := len(ranked)
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	results := make([]SearchItem, 0, end-offset)
	for _, item := range ranked[offset:end] {
		results = append(results, SearchItem{
			Product:         item.Product,
			SimilarityScore: math.Round(item.Score*1000) / 1000,
		})
	}

	return &SearchResult{
		Results:    results,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
		HasNext:    total > end,
	}, nil
}

// GetProduct returns a canonical product with all its store listings and
// their complete price history.
func (s *CatalogService) GetProduct(id uuid.UUID) (*models.CanonicalProduct, error) {
	var product models.CanonicalProduct
	err := s.db.
		Preload("StoreListings").
		Preload("StoreListings.PriceRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("price_records.start_date DESC")
		}).
		First(&product, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

// GetStoreListing returns one store's listing of a product with its price
// history.
func (s *CatalogService) GetStoreListing(productID uuid.UUID, store string) (*models.StoreListing, error) {
	var listing models.StoreListing
	err := s.db.
		Preload("PriceRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("price_records.start_date DESC")
		}).
		Where("product_id = ? AND store = ?", productID, store).
		First(&listing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s has no listing at %s", ErrNotFound, productID, store)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &listing, nil
}

// ListProducts returns catalog entries, optionally filtered by store and
// normalized category.
func (s *CatalogService) ListProducts(store, category string, params utils.PaginationParams) ([]models.CanonicalProduct, int64, error) {
	query := s.db.Model(&models.CanonicalProduct{}).Preload("StoreListings")

	if store != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM store_listings sl WHERE sl.product_id = canonical_products.id AND sl.store = ?)",
			store,
		)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "updated_at", "name", "category"})
	query = utils.ApplyPagination(query, params)

	var products []models.CanonicalProduct
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}
