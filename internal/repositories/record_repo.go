package repositories

import "shelving/internal/models"

// RecordRepository defines the interface for file-record data access.
type RecordRepository interface {
	GetAll() ([]models.Record, error)
	Create(record *models.Record) error
	Delete(docID string) error
	// Move re-parents the record to another box, updating the rack label,
	// box label and stable box reference together.
	Move(docID, targetNodeID, targetBlockDocID string) error
}
