package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shelving/internal/apperr"
	"shelving/internal/models"
	"shelving/internal/store"
)

// GORMBlockRepository is a GORM implementation of BlockRepository.
type GORMBlockRepository struct {
	store *store.Store
}

// NewGORMBlockRepository creates a new instance of GORMBlockRepository.
func NewGORMBlockRepository(s *store.Store) *GORMBlockRepository {
	return &GORMBlockRepository{store: s}
}

// GetAll retrieves all boxes.
func (r *GORMBlockRepository) GetAll() ([]models.Block, error) {
	var blocks []models.Block
	if err := r.store.DB().Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("failed to get all blocks: %w", err)
	}
	return blocks, nil
}

// Create inserts a new box, generating its docId when absent. OriginNodeID
// stays null until the box is first moved.
func (r *GORMBlockRepository) Create(block *models.Block) error {
	if block.DocID == "" {
		block.DocID = uuid.New().String()
	}
	block.OriginNodeID = nil
	if err := r.store.DB().Create(block).Error; err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

// Delete removes a box and every record referencing it via blockDocId.
func (r *GORMBlockRepository) Delete(docID string) error {
	return r.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(`"blockDocId" = ?`, docID).Delete(&models.Record{}).Error; err != nil {
			return fmt.Errorf("failed to cascade block delete to records: %w", err)
		}
		if err := tx.Delete(&models.Block{}, `"docId" = ?`, docID).Error; err != nil {
			return fmt.Errorf("failed to delete block %s: %w", docID, err)
		}
		return nil
	})
}

// Move re-parents a box to the rack labeled targetNodeID. In one
// transaction it (1) updates the box's rack label and records the previous
// label in originNodeId, (2) re-labels every record referencing the box by
// stable id, and (3) adopts legacy records that still match the old
// (nodeId, blockId) pair with a null blockDocId, stamping the stable id so
// they are no longer ambiguous.
func (r *GORMBlockRepository) Move(docID, targetNodeID string) error {
	return r.store.DB().Transaction(func(tx *gorm.DB) error {
		var block models.Block
		if err := tx.First(&block, `"docId" = ?`, docID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("block not found")
			}
			return fmt.Errorf("failed to look up block %s: %w", docID, err)
		}
		oldNodeID := block.NodeID

		if err := tx.Model(&models.Block{}).Where(`"docId" = ?`, docID).
			Updates(map[string]interface{}{"nodeId": targetNodeID, "originNodeId": oldNodeID}).Error; err != nil {
			return fmt.Errorf("failed to re-parent block %s: %w", docID, err)
		}

		if err := tx.Model(&models.Record{}).Where(`"blockDocId" = ?`, docID).
			Update("nodeId", targetNodeID).Error; err != nil {
			return fmt.Errorf("failed to re-label records of block %s: %w", docID, err)
		}

		if err := tx.Model(&models.Record{}).
			Where(`"nodeId" = ? AND "blockId" = ? AND "blockDocId" IS NULL`, oldNodeID, block.BlockID).
			Updates(map[string]interface{}{"nodeId": targetNodeID, "blockDocId": docID}).Error; err != nil {
			return fmt.Errorf("failed to adopt legacy records of block %s: %w", docID, err)
		}
		return nil
	})
}
