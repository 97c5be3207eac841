package models

// Note is a free-standing sticky note with no parent entity.
type Note struct {
	DocID string `json:"docId" gorm:"column:docId;primaryKey"`
	Text  string `json:"text" gorm:"column:text" validate:"required,max=2000"`
	Time  string `json:"time" gorm:"column:time" validate:"max=100"` // caller-supplied display timestamp
}

func (Note) TableName() string { return "notes" }
