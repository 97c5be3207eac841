package repositories

import (
	"fmt"

	"github.com/google/uuid"

	"shelving/internal/models"
	"shelving/internal/store"
)

// GORMNoteRepository is a GORM implementation of NoteRepository.
type GORMNoteRepository struct {
	store *store.Store
}

// NewGORMNoteRepository creates a new instance of GORMNoteRepository.
func NewGORMNoteRepository(s *store.Store) *GORMNoteRepository {
	return &GORMNoteRepository{store: s}
}

// GetAll retrieves all notes.
func (r *GORMNoteRepository) GetAll() ([]models.Note, error) {
	var notes []models.Note
	if err := r.store.DB().Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to get all notes: %w", err)
	}
	return notes, nil
}

// Create inserts a new note, generating its docId when absent.
func (r *GORMNoteRepository) Create(note *models.Note) error {
	if note.DocID == "" {
		note.DocID = uuid.New().String()
	}
	if err := r.store.DB().Create(note).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// Delete removes a note.
func (r *GORMNoteRepository) Delete(docID string) error {
	if err := r.store.DB().Delete(&models.Note{}, `"docId" = ?`, docID).Error; err != nil {
		return fmt.Errorf("failed to delete note %s: %w", docID, err)
	}
	return nil
}
