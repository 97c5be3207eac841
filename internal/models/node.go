package models

// Node is a rack: a top-level storage location container.
type Node struct {
	DocID  string `json:"docId" gorm:"column:docId;primaryKey"`
	NodeID string `json:"nodeId" gorm:"column:nodeId" validate:"required,max=100"` // human label, e.g. RACK-01
}

func (Node) TableName() string { return "nodes" }
