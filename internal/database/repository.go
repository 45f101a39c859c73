package database

import (
	"github.com/locus/locus/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all journal operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a window change
func (r *Repository) Create(change *models.WindowChange) error {
	result := r.db.Create(change)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert window change")
	}
	return nil
}

// Recent returns up to limit changes, newest first
func (r *Repository) Recent(limit int) ([]*models.WindowChange, error) {
	var changes []*models.WindowChange
	result := r.db.Order("id DESC").Limit(limit).Find(&changes)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query window changes")
	}
	return changes, nil
}

// Latest retrieves the most recent change, or nil when the journal is empty
func (r *Repository) Latest() (*models.WindowChange, error) {
	var change models.WindowChange
	result := r.db.Order("id DESC").First(&change)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest window change")
	}
	return &change, nil
}

// Count returns the number of journal entries
func (r *Repository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&models.WindowChange{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to count window changes")
	}
	return count, nil
}

// Trim deletes all but the newest keep changes
func (r *Repository) Trim(keep int) (int64, error) {
	result := r.db.Exec(
		"DELETE FROM window_changes WHERE id NOT IN (SELECT id FROM window_changes ORDER BY id DESC LIMIT ?)",
		keep,
	)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to trim window changes")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// RecentErrors returns up to limit error logs, newest first
func (r *Repository) RecentErrors(limit int) ([]*models.ErrorLog, error) {
	var logs []*models.ErrorLog
	result := r.db.Order("id DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// Clear removes all window changes from the journal
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM window_changes")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear window changes")
	}
	return nil
}
