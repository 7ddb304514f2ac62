// Package store holds the two persistence boundaries of spendbook: the
// local key-value cache (synchronous, always written first) and the remote
// one-row-per-user document store.
package store

import (
	"encoding/json"
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
	"spendbook/internal/models"
	"spendbook/internal/normalize"
)

// DocumentCacheKey is the fixed key the serialized document lives under.
const DocumentCacheKey = "spendbook.document.v1"

// KV is the local cache storage boundary.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// CacheEntry is one row of the SQLite-backed KV.
type CacheEntry struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// sqliteKV implements KV on a single SQLite table. It stands in for the
// client-side durable storage of the original front end.
type sqliteKV struct {
	db *gorm.DB
}

// OpenSQLiteKV opens (and migrates) a SQLite-backed KV at the given path.
// Use ":memory:" for an ephemeral store.
func OpenSQLiteKV(path string) (KV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		return nil, err
	}
	return &sqliteKV{db: db}, nil
}

// NewKV wraps an already-open gorm database as a KV.
func NewKV(db *gorm.DB) (KV, error) {
	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		return nil, err
	}
	return &sqliteKV{db: db}, nil
}

func (s *sqliteKV) Get(key string) (string, bool, error) {
	var entry CacheEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *sqliteKV) Set(key, value string) error {
	return s.db.Save(&CacheEntry{Key: key, Value: value}).Error
}

func (s *sqliteKV) Remove(key string) error {
	return s.db.Delete(&CacheEntry{}, "key = ?", key).Error
}

// Cache reads and writes the normalized document under the fixed cache key.
type Cache struct {
	kv KV
}

// NewCache creates a Cache on top of a KV.
func NewCache(kv KV) *Cache {
	return &Cache{kv: kv}
}

// Save serializes the document and writes it synchronously. Callers run this
// before any remote write so a remote failure never loses local state.
func (c *Cache) Save(doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCacheWrite, err)
	}
	if err := c.kv.Set(DocumentCacheKey, string(data)); err != nil {
		return apperrors.Wrap(apperrors.ErrCacheWrite, err)
	}
	return nil
}

// Load reads the cached document, passing it through the normalizer. A
// missing key, a read failure, or an unparseable payload all yield the
// defaults document; parse errors never propagate to the caller.
func (c *Cache) Load() *models.Document {
	raw, found, err := c.kv.Get(DocumentCacheKey)
	if err != nil {
		logger.Get().Warnw("cache read failed, using defaults", "error", err)
		return models.DefaultDocument()
	}
	if !found {
		return models.DefaultDocument()
	}
	return normalize.Parse([]byte(raw))
}

// Clear removes the cached document.
func (c *Cache) Clear() error {
	return c.kv.Remove(DocumentCacheKey)
}
