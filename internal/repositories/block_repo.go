package repositories

import "shelving/internal/models"

// BlockRepository defines the interface for box data access.
type BlockRepository interface {
	GetAll() ([]models.Block, error)
	Create(block *models.Block) error
	// Delete removes the box and cascades to every record referencing it by
	// stable id.
	Delete(docID string) error
	// Move re-parents the box to another rack and repairs the denormalized
	// rack labels on its records, adopting legacy rows along the way.
	Move(docID, targetNodeID string) error
}
