package models

// Record is a leaf inventory entry nested under exactly one box.
//
// BlockDocID is the authoritative parent link once populated. BlockID and
// NodeID are legacy denormalized labels kept for display and for matching
// rows written before BlockDocID existed; the schema backfill and the block
// move adoption step migrate such rows to the stable reference.
type Record struct {
	DocID      string  `json:"docId" gorm:"column:docId;primaryKey"`
	FileNumber string  `json:"fileNumber" gorm:"column:fileNumber" validate:"required,max=200"`
	FileName   string  `json:"fileName" gorm:"column:fileName" validate:"max=200"`
	FullName   string  `json:"fullName" gorm:"column:fullName" validate:"max=200"`
	FileDate   string  `json:"fileDate" gorm:"column:fileDate" validate:"max=100"` // free text, not parsed
	BlockID    string  `json:"blockId" gorm:"column:blockId" validate:"required,max=100"`
	NodeID     string  `json:"nodeId" gorm:"column:nodeId" validate:"required,max=100"`
	BlockDocID *string `json:"blockDocId" gorm:"column:blockDocId"`
}

func (Record) TableName() string { return "records" }
