package db_models

import "github.com/google/uuid"

type CartItem struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index"`
	Name        string
	ServiceType string `gorm:"size:30"`
	Price       float64 `gorm:"type:numeric"`
	DayNumber   int
	TimeSlot    string `gorm:"size:20"`
	Quantity    int    `gorm:"default:1"`
}
