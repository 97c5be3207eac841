package services

import (
	"shelving/internal/models"
	"shelving/internal/repositories"
	"shelving/internal/store"
	"shelving/pkg/rabbitmq"
)

// RecordService handles business logic for file records.
type RecordService struct {
	repo     repositories.RecordRepository
	store    *store.Store
	mqClient *rabbitmq.Client
}

// NewRecordService creates a new RecordService.
func NewRecordService(repo repositories.RecordRepository, s *store.Store, mqClient *rabbitmq.Client) *RecordService {
	return &RecordService{repo: repo, store: s, mqClient: mqClient}
}

// GetAllRecords retrieves every record.
func (s *RecordService) GetAllRecords() ([]models.Record, error) {
	return s.repo.GetAll()
}

// CreateRecord files a record under its box and rack labels.
func (s *RecordService) CreateRecord(record *models.Record) error {
	if err := s.repo.Create(record); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "record", "created", map[string]interface{}{
		"docId": record.DocID, "fileNumber": record.FileNumber,
		"blockId": record.BlockID, "nodeId": record.NodeID,
	})
	return nil
}

// DeleteRecord removes a record.
func (s *RecordService) DeleteRecord(docID string) error {
	if err := s.repo.Delete(docID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "record", "deleted", map[string]interface{}{"docId": docID})
	return nil
}

// MoveRecord re-parents a record to another box.
func (s *RecordService) MoveRecord(docID, targetNodeID, targetBlockDocID string) error {
	if err := s.repo.Move(docID, targetNodeID, targetBlockDocID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "record", "moved", map[string]interface{}{
		"docId": docID, "targetNodeId": targetNodeID, "targetBlockId": targetBlockDocID,
	})
	return nil
}

func (s *RecordService) persist() error {
	if s.store == nil {
		return nil
	}
	return s.store.Persist()
}
