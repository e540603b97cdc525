package repository

import (
	"time"

	"peopledetect/internal/models"
)

// ActuationRepository defines the interface for the actuation journal.
type ActuationRepository interface {
	// Create operations
	Insert(a *models.Actuation) error

	// Update operations
	Complete(id string, outcome models.Outcome, errMsg string, finishedAt time.Time) error

	// Read operations
	GetByID(id string) (*models.Actuation, error)
	Recent(limit int) ([]models.Actuation, error)
	Stats() (*models.ActuationStats, error)

	// Delete operations
	DeleteBefore(t time.Time) (int64, error)
}
