package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shelving/internal/models"
	"shelving/internal/store"
)

// GORMNodeRepository is a GORM implementation of NodeRepository.
type GORMNodeRepository struct {
	store *store.Store
}

// NewGORMNodeRepository creates a new instance of GORMNodeRepository.
func NewGORMNodeRepository(s *store.Store) *GORMNodeRepository {
	return &GORMNodeRepository{store: s}
}

// GetAll retrieves all racks.
func (r *GORMNodeRepository) GetAll() ([]models.Node, error) {
	var nodes []models.Node
	if err := r.store.DB().Find(&nodes).Error; err != nil {
		return nil, fmt.Errorf("failed to get all nodes: %w", err)
	}
	return nodes, nil
}

// Create inserts a new rack, generating its docId when absent.
func (r *GORMNodeRepository) Create(node *models.Node) error {
	if node.DocID == "" {
		node.DocID = uuid.New().String()
	}
	if err := r.store.DB().Create(node).Error; err != nil {
		return fmt.Errorf("failed to create node: %w", err)
	}
	return nil
}

// Delete removes a rack together with every block and record carrying its
// label. Blocks and records reference racks by label, not docId, so the
// cascade matches on the label. Deleting an unknown docId is a no-op, same
// as a plain row delete.
func (r *GORMNodeRepository) Delete(docID string) error {
	return r.store.DB().Transaction(func(tx *gorm.DB) error {
		var node models.Node
		err := tx.First(&node, `"docId" = ?`, docID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Nothing to cascade; fall through to the row delete below.
		case err != nil:
			return fmt.Errorf("failed to look up node %s: %w", docID, err)
		default:
			if err := tx.Where(`"nodeId" = ?`, node.NodeID).Delete(&models.Block{}).Error; err != nil {
				return fmt.Errorf("failed to cascade node delete to blocks: %w", err)
			}
			if err := tx.Where(`"nodeId" = ?`, node.NodeID).Delete(&models.Record{}).Error; err != nil {
				return fmt.Errorf("failed to cascade node delete to records: %w", err)
			}
		}

		if err := tx.Delete(&models.Node{}, `"docId" = ?`, docID).Error; err != nil {
			return fmt.Errorf("failed to delete node %s: %w", docID, err)
		}
		return nil
	})
}
