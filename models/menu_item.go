package models

import "time"

type MenuItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	NameEn      string    `gorm:"type:varchar(255);not null" json:"name_en"`
	NameAr      string    `gorm:"type:varchar(255);not null" json:"name_ar"`
	Category    string    `gorm:"type:varchar(100)" json:"category"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	PointsPrice int       `gorm:"not null;default:0" json:"points_price"`
	Available   bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
