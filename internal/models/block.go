package models

// Block is a box of records nested under exactly one rack at a time.
//
// NodeID references the owning rack by its human label, not its docId. That
// denormalization predates stable references and must be repaired whenever a
// block moves between racks (see BlockRepository.Move). OriginNodeID keeps
// the previous rack label after a move for audit display.
type Block struct {
	DocID        string  `json:"docId" gorm:"column:docId;primaryKey"`
	BlockID      string  `json:"blockId" gorm:"column:blockId" validate:"required,max=100"` // human label, e.g. BOX-01
	NodeID       string  `json:"nodeId" gorm:"column:nodeId" validate:"required,max=100"`
	OriginNodeID *string `json:"originNodeId" gorm:"column:originNodeId"`
}

func (Block) TableName() string { return "blocks" }
