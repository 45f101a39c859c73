package database

import (
	"log"
	"time"

	"github.com/locus/locus/internal/models"
	"github.com/locus/locus/pkg/window"

	"github.com/pkg/errors"
)

// Journal records emitted events and publish failures in the repository. It
// is both an event sink and an error recorder for the polling loop.
type Journal struct {
	repo          *Repository
	maxEntries    int
	displayServer string
	now           func() time.Time
}

// NewJournal creates a journal keeping at most maxEntries changes
func NewJournal(repo *Repository, maxEntries int, displayServer string) *Journal {
	return &Journal{
		repo:          repo,
		maxEntries:    maxEntries,
		displayServer: displayServer,
		now:           time.Now,
	}
}

// Publish stores the change and trims the oldest entries
func (j *Journal) Publish(event string, info window.WindowInfo) error {
	change := &models.WindowChange{
		Timestamp:     j.now(),
		Class:         info.Class,
		Title:         info.Title,
		DisplayServer: j.displayServer,
	}
	if err := j.repo.Create(change); err != nil {
		return errors.Wrapf(err, "journal %s", event)
	}

	if j.maxEntries > 0 && change.ID > uint(j.maxEntries) {
		if _, err := j.repo.Trim(j.maxEntries); err != nil {
			return errors.Wrapf(err, "journal %s", event)
		}
	}
	return nil
}

// RecordError stores a publish failure
func (j *Journal) RecordError(err error) {
	errorLog := &models.ErrorLog{
		Timestamp: j.now(),
		Source:    "publish",
		ErrorMsg:  err.Error(),
	}

	if dbErr := j.repo.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in journal: %v (original error: %v)", dbErr, err)
	}
}
