package repositories

import "shelving/internal/models"

// NoteRepository defines the interface for sticky-note data access.
type NoteRepository interface {
	GetAll() ([]models.Note, error)
	Create(note *models.Note) error
	Delete(docID string) error
}
