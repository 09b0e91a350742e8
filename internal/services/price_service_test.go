// internal/services/price_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pricebyte/catalog-backend/internal/models"
)

type PriceServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	catalog *CatalogService
	prices  *PriceService
}

func (s *PriceServiceTestSuite) SetupTest() {
	s.db, s.catalog, s.prices = newTestServices(s.T())
}

func TestPriceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PriceServiceTestSuite))
}

// ingestListing creates a listing at the given price and returns its id.
func (s *PriceServiceTestSuite) ingestListing(price float64) uuid.UUID {
	result, err := s.catalog.Ingest(colesEggs(price))
	s.Require().NoError(err)
	return result.ListingID
}

func (s *PriceServiceTestSuite) openRecords(listingID uuid.UUID) []models.PriceRecord {
	var records []models.PriceRecord
	s.Require().NoError(s.db.
		Where("store_listing_id = ? AND end_date IS NULL", listingID).
		Find(&records).Error)
	return records
}

func (s *PriceServiceTestSuite) TestRecordPriceBuildsContiguousChain() {
	listingID := s.ingestListing(5.00)

	for _, price := range []float64{6.00, 7.00, 8.50} {
		update, err := s.prices.RecordPrice(listingID, price)
		s.Require().NoError(err)
		s.True(update.Changed)
		s.Equal(price, update.NewPrice)
	}

	history, err := s.prices.History(listingID)
	s.Require().NoError(err)
	s.Require().Len(history, 4)

	// Exactly one open record, holding the latest price.
	open := s.openRecords(listingID)
	s.Require().Len(open, 1)
	s.Equal(8.50, open[0].Price)

	// Every closed record ends on the day its successor starts.
	for _, record := range history {
		if record.Open() {
			continue
		}
		s.Require().NotNil(record.EndDate)
		s.True(record.EndDate.UTC().Equal(fixedToday))
		s.True(record.StartDate.UTC().Equal(fixedToday))
	}

	var listing models.StoreListing
	s.Require().NoError(s.db.First(&listing, "id = ?", listingID).Error)
	s.Equal(8.50, listing.CurrentPrice)
}

func (s *PriceServiceTestSuite) TestRecordPriceReportsOldAndNew() {
	listingID := s.ingestListing(5.00)

	update, err := s.prices.RecordPrice(listingID, 6.00)
	s.Require().NoError(err)

	s.Equal(5.00, update.OldPrice)
	s.Equal(6.00, update.NewPrice)
	s.Equal("coles", update.StoreListing)
	s.Equal("p1", update.StoreProduct)
	s.NotEqual(uuid.Nil, update.HistoryID)
}

func (s *PriceServiceTestSuite) TestRecordPriceEqualIsNoOp() {
	listingID := s.ingestListing(5.00)

	_, err := s.prices.RecordPrice(listingID, 5.00)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrNoOp))

	// The rejected update left no trace in the timeline.
	history, err := s.prices.History(listingID)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *PriceServiceTestSuite) TestRecordPriceRejectsNegative() {
	listingID := s.ingestListing(5.00)

	_, err := s.prices.RecordPrice(listingID, -0.01)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrValidation))
}

func (s *PriceServiceTestSuite) TestRecordPriceUnknownListing() {
	_, err := s.prices.RecordPrice(uuid.New(), 5.00)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrNotFound))
}

func (s *PriceServiceTestSuite) TestRecordPriceToZeroIsAllowed() {
	// Free promotional items are a legal price point.
	listingID := s.ingestListing(5.00)

	update, err := s.prices.RecordPrice(listingID, 0)
	s.Require().NoError(err)
	s.True(update.Changed)
	s.Equal(0.0, update.NewPrice)
}

func (s *PriceServiceTestSuite) TestHistoryNewestFirst() {
	listingID := s.ingestListing(5.00)

	_, err := s.prices.RecordPrice(listingID, 6.00)
	s.Require().NoError(err)
	_, err = s.prices.RecordPrice(listingID, 7.00)
	s.Require().NoError(err)

	history, err := s.prices.History(listingID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)

	s.Equal(7.00, history[0].Price)
	s.True(history[0].Open())
	s.Equal(6.00, history[1].Price)
	s.Equal(5.00, history[2].Price)
}

func (s *PriceServiceTestSuite) TestTimelineKeepsSingleOpenRecord() {
	listingID := s.ingestListing(5.00)

	// Mixed ingestion updates and explicit updates share one timeline.
	_, err := s.catalog.Ingest(colesEggs(5.50))
	s.Require().NoError(err)
	_, err = s.prices.RecordPrice(listingID, 6.25)
	s.Require().NoError(err)
	_, err = s.catalog.Ingest(colesEggs(6.25))
	s.Require().NoError(err)

	s.Len(s.openRecords(listingID), 1)

	history, err := s.prices.History(listingID)
	s.Require().NoError(err)
	s.Len(history, 3)
}
