package services

import (
	"shelving/internal/models"
	"shelving/internal/repositories"
	"shelving/internal/store"
	"shelving/pkg/rabbitmq"
)

// NodeService handles business logic for racks.
type NodeService struct {
	repo     repositories.NodeRepository
	store    *store.Store
	mqClient *rabbitmq.Client
}

// NewNodeService creates a new NodeService.
func NewNodeService(repo repositories.NodeRepository, s *store.Store, mqClient *rabbitmq.Client) *NodeService {
	return &NodeService{repo: repo, store: s, mqClient: mqClient}
}

// GetAllNodes retrieves every rack.
func (s *NodeService) GetAllNodes() ([]models.Node, error) {
	return s.repo.GetAll()
}

// CreateNode creates a rack and persists the image before reporting success.
func (s *NodeService) CreateNode(node *models.Node) error {
	if err := s.repo.Create(node); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "node", "created", map[string]interface{}{
		"docId": node.DocID, "nodeId": node.NodeID,
	})
	return nil
}

// DeleteNode removes a rack and everything shelved under it.
func (s *NodeService) DeleteNode(docID string) error {
	if err := s.repo.Delete(docID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		return err
	}
	publishChange(s.mqClient, "node", "deleted", map[string]interface{}{"docId": docID})
	return nil
}

func (s *NodeService) persist() error {
	if s.store == nil {
		return nil
	}
	return s.store.Persist()
}
