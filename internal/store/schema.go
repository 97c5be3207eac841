package store

import (
	"fmt"

	"gorm.io/gorm"

	"shelving/internal/models"
)

// backfillBlockDocID stamps the stable box reference onto records written
// before the blockDocId column existed, matching on the legacy
// (blockId, nodeId) label pair. Re-running it is a no-op.
const backfillBlockDocID = `
UPDATE records SET "blockDocId" = (
    SELECT "docId" FROM blocks
    WHERE blocks."blockId" = records."blockId"
      AND blocks."nodeId" = records."nodeId"
) WHERE "blockDocId" IS NULL`

// Migrate bootstraps the schema on a fresh image and applies additive
// migrations on an existing one. AutoMigrate creates missing tables and adds
// the later-added nullable columns (blocks.originNodeId, records.blockDocId)
// without touching existing data, so running it on every load is safe.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Node{},
		&models.Block{},
		&models.Record{},
		&models.Note{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := db.Exec(backfillBlockDocID).Error; err != nil {
		return fmt.Errorf("failed to backfill record parent references: %w", err)
	}
	return nil
}
