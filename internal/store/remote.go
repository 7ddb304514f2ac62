package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spendbook/internal/config"
)

// Record is one remote document row. There is exactly one row per user at
// all times after first login.
type Record struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Payload   string    `gorm:"not null" json:"payload"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName maps Record onto the documents table.
func (Record) TableName() string { return "documents" }

// Remote is the remote storage boundary: a keyed read and a
// replace-if-exists-else-insert write.
type Remote interface {
	// Select returns the record for userID, or nil when none exists.
	Select(userID string) (*Record, error)
	// Upsert inserts or replaces the record keyed by its UserID.
	Upsert(rec Record) error
}

// gormRemote implements Remote on a gorm database.
type gormRemote struct {
	db *gorm.DB
}

// NewRemote wraps a gorm database as the remote document store.
func NewRemote(db *gorm.DB) Remote {
	return &gormRemote{db: db}
}

func (r *gormRemote) Select(userID string) (*Record, error) {
	var rec Record
	if err := r.db.First(&rec, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *gormRemote) Upsert(rec Record) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

// OpenPostgres connects to the remote database using the application config.
func OpenPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Required behind transaction poolers; harmless for direct connections
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
