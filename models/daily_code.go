package models

import "time"

// DailyCode is the access code customers must enter before ordering. One row
// per calendar day, rotated by staff.
type DailyCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(20);not null" json:"code"`
	ValidOn   string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"valid_on"` // YYYY-MM-DD
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DailyCode) TableName() string {
	return "daily_codes"
}
