// internal/database/locks_test.go
package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pricebyte/catalog-backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, RunMigrations(db))
	return db
}

func TestIsConflict(t *testing.T) {
	assert.False(t, IsConflict(nil))
	assert.False(t, IsConflict(errors.New("connection refused")))

	assert.True(t, IsConflict(gorm.ErrDuplicatedKey))
	assert.True(t, IsConflict(fmt.Errorf("create failed: %w", gorm.ErrDuplicatedKey)))

	assert.True(t, IsConflict(&pq.Error{Code: "23505"}))
	assert.True(t, IsConflict(&pq.Error{Code: "40001"}))
	assert.False(t, IsConflict(&pq.Error{Code: "23503"}))

	// sqlite reports unique violations as plain strings.
	assert.True(t, IsConflict(errors.New("UNIQUE constraint failed: store_listings.store")))
}

func TestAdvisoryLocksAreNoOpsOffPostgres(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, WithTransaction(db, func(tx *gorm.DB) error {
		if err := LockListing(tx, "coles", "p1"); err != nil {
			return err
		}
		return LockMatchKey(tx, "organicfreerangeeggs")
	}))
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	sentinel := errors.New("boom")
	err := WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.CanonicalProduct{Name: "Eggs"}).Error; err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, db.Model(&models.CanonicalProduct{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestWithRetryRetriesConflicts(t *testing.T) {
	db := openTestDB(t)

	attempts := 0
	err := WithRetry(db, 3, func(tx *gorm.DB) error {
		attempts++
		if attempts < 3 {
			return errors.New("UNIQUE constraint failed: store_listings.store")
		}
		return tx.Create(&models.CanonicalProduct{Name: "Eggs"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryGivesUpAfterAttempts(t *testing.T) {
	db := openTestDB(t)

	attempts := 0
	err := WithRetry(db, 3, func(tx *gorm.DB) error {
		attempts++
		return errors.New("UNIQUE constraint failed: store_listings.store")
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Equal(t, 3, attempts)
}

func TestWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	db := openTestDB(t)

	attempts := 0
	err := WithRetry(db, 3, func(tx *gorm.DB) error {
		attempts++
		return errors.New("connection refused")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
