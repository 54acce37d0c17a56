package audit

import (
	"context"
	"fmt"

	"dropbox-comments/core/database"

	"gorm.io/gorm"
)

const batchSize = 100

var requiredColumns = []string{"id", "cycle_id", "logged_at", "event_id", "file_name", "matched_row", "score", "comment_text"}

// Repository persists audit entries with GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the audit table and checks its columns.
func (r *Repository) Migrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate audit table: %w", err)
	}

	missing, err := database.MissingColumns(db, Entry{}.TableName(), requiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("audit table is missing columns %v", missing)
	}
	return nil
}

// Record inserts entries in batches inside one transaction.
func (r *Repository) Record(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(entries, batchSize).Error; err != nil {
		return fmt.Errorf("failed to record %d audit entries: %w", len(entries), err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []Entry
	if err := r.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
