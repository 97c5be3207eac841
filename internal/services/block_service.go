package services

import (
	"shelving/internal/models"
	"shelving/internal/repositories"
	"shelving/internal/store"
	"shelving/pkg/rabbitmq"
)

// BlockService handles business logic for boxes.
type BlockService struct {
	repo     repositories.BlockRepository
	store    *store.Store
	mqClient *rabbitmq.Client
}

// NewBlockService creates a new BlockService.
func NewBlockService(repo repositories.BlockRepository, s *store.Store, mqClient *rabbitmq.Client) *BlockService {
	return &BlockService{repo: repo, store: s, mqClient: mqClient}
}

// GetAllBlocks retrieves every box.
func (s *BlockService) GetAllBlocks() ([]models.Block, error) {
	return s.repo.GetAll()
}

// CreateBlock creates a box under its rack label.
func (s *BlockService) CreateBlock(block *models.Block) error {
	if err := s.repo.Create(block); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "block", "created", map[string]interface{}{
		"docId": block.DocID, "blockId": block.BlockID, "nodeId": block.NodeID,
	})
	return nil
}

// DeleteBlock removes a box and the records it holds.
func (s *BlockService) DeleteBlock(docID string) error {
	if err := s.repo.Delete(docID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "block", "deleted", map[string]interface{}{"docId": docID})
	return nil
}

// MoveBlock re-parents a box to another rack, repairing the denormalized
// labels on the records it holds.
func (s *BlockService) MoveBlock(docID, targetNodeID string) error {
	if err := s.repo.Move(docID, targetNodeID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "block", "moved", map[string]interface{}{
		"docId": docID, "targetNodeId": targetNodeID,
	})
	return nil
}

func (s *BlockService) persist() error {
	if s.store == nil {
		return nil
	}
	return s.store.Persist()
}
