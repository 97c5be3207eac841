package services

import (
	"shelving/internal/models"
	"shelving/internal/repositories"
	"shelving/internal/store"
	"shelving/pkg/rabbitmq"
)

// NoteService handles business logic for sticky notes.
type NoteService struct {
	repo     repositories.NoteRepository
	store    *store.Store
	mqClient *rabbitmq.Client
}

// NewNoteService creates a new NoteService.
func NewNoteService(repo repositories.NoteRepository, s *store.Store, mqClient *rabbitmq.Client) *NoteService {
	return &NoteService{repo: repo, store: s, mqClient: mqClient}
}

// GetAllNotes retrieves every note.
func (s *NoteService) GetAllNotes() ([]models.Note, error) {
	return s.repo.GetAll()
}

// CreateNote creates a note.
func (s *NoteService) CreateNote(note *models.Note) error {
	if err := s.repo.Create(note); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "note", "created", map[string]interface{}{"docId": note.DocID})
	return nil
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(docID string) error {
	if err := s.repo.Delete(docID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "note", "deleted", map[string]interface{}{"docId": docID})
	return nil
}

func (s *NoteService) persist() error {
	if s.store == nil {
		return nil
	}
	return s.store.Persist()
}
