package repositories

import "shelving/internal/models"

// NodeRepository defines the interface for rack data access.
type NodeRepository interface {
	GetAll() ([]models.Node, error)
	Create(node *models.Node) error
	// Delete removes the rack and cascades to every block and record whose
	// denormalized rack label matches it.
	Delete(docID string) error
}
