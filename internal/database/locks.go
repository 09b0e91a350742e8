// internal/database/locks.go
package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Advisory locks serialize the decide-and-write sequence against concurrent
// writers. Both locks are transaction-scoped (released at commit/rollback)
// and only exist on Postgres; other dialects fall back to plain transaction
// discipline, which is sufficient for the single-writer test setups.

// LockListing takes a per-(store, store-native-id) advisory lock so two
// concurrent ingestions of the same listing cannot interleave.
func LockListing(tx *gorm.DB, store, storeProductID string) error {
	return advisoryLock(tx, "listing/"+store+"/"+storeProductID)
}

// LockMatchKey takes an advisory lock on the incoming normalized name key so
// two concurrent ingestions of listings that would match the same product
// cannot both decide "create new" and produce duplicate canonical products.
func LockMatchKey(tx *gorm.DB, nameKey string) error {
	return advisoryLock(tx, "match/"+nameKey)
}

func advisoryLock(tx *gorm.DB, key string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// IsConflict reports whether an error is a write race detected at commit
// time: a unique violation or a serialization failure. Such errors are safe
// to retry with a fresh matching decision.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 23505 unique_violation, 40001 serialization_failure
		return pqErr.Code == "23505" || pqErr.Code == "40001"
	}

	// sqlite (tests) reports unique violations as plain error strings.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// WithRetry runs fn in a transaction, retrying the whole decide-and-write
// sequence up to attempts times when the commit hits a write race. Partial
// state is never patched; each retry starts from a fresh snapshot.
func WithRetry(db *gorm.DB, attempts int, fn func(*gorm.DB) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = WithTransaction(db, fn)
		if err == nil || !IsConflict(err) {
			return err
		}
	}
	return err
}
