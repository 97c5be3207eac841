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

// GORMRecordRepository is a GORM implementation of RecordRepository.
type GORMRecordRepository struct {
	store *store.Store
}

// NewGORMRecordRepository creates a new instance of GORMRecordRepository.
func NewGORMRecordRepository(s *store.Store) *GORMRecordRepository {
	return &GORMRecordRepository{store: s}
}

// GetAll retrieves all records.
func (r *GORMRecordRepository) GetAll() ([]models.Record, error) {
	var records []models.Record
	if err := r.store.DB().Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get all records: %w", err)
	}
	return records, nil
}

// Create inserts a new record, generating its docId when absent.
func (r *GORMRecordRepository) Create(record *models.Record) error {
	if record.DocID == "" {
		record.DocID = uuid.New().String()
	}
	if err := r.store.DB().Create(record).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// Delete removes a record.
func (r *GORMRecordRepository) Delete(docID string) error {
	if err := r.store.DB().Delete(&models.Record{}, `"docId" = ?`, docID).Error; err != nil {
		return fmt.Errorf("failed to delete record %s: %w", docID, err)
	}
	return nil
}

// Move re-parents a record to the box identified by targetBlockDocID inside
// the rack labeled targetNodeID. The rack label, box label and stable box
// reference are overwritten together in one transaction so the record never
// points at a stale parent by one key but not another. A missing target box
// fails the move rather than stamping a placeholder label.
func (r *GORMRecordRepository) Move(docID, targetNodeID, targetBlockDocID string) error {
	return r.store.DB().Transaction(func(tx *gorm.DB) error {
		var target models.Block
		if err := tx.First(&target, `"docId" = ?`, targetBlockDocID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("block not found")
			}
			return fmt.Errorf("failed to look up target block %s: %w", targetBlockDocID, err)
		}

		res := tx.Model(&models.Record{}).Where(`"docId" = ?`, docID).
			Updates(map[string]interface{}{
				"nodeId":     targetNodeID,
				"blockId":    target.BlockID,
				"blockDocId": targetBlockDocID,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to re-parent record %s: %w", docID, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("record not found")
		}
		return nil
	})
}
