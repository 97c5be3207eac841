package models

// User represents an operator account stored inside the database image.
// The schema is fixed: the image must stay readable by older copies of the
// application, so no timestamp or soft-delete columns are added.
type User struct {
	ID       string `json:"id" gorm:"column:id;primaryKey" validate:"omitempty,uuid"`
	Username string `json:"username" gorm:"column:username" validate:"required,min=1,max=100"`
	Password string `json:"-" gorm:"column:password" validate:"required,min=4"` // digest, never clear text
}

// TableName pins the legacy table name.
func (User) TableName() string { return "users" }
