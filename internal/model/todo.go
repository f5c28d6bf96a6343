package model

// swagger:model Todo
type Todo struct {
	UUIDBase
	UserID    string `gorm:"size:36;index;not null" json:"-"`
	Text      string `gorm:"size:500;not null" json:"text"`
	Completed bool   `gorm:"default:false" json:"completed"`
}

func (Todo) TableName() string {
	return "todos"
}
