package models

import "time"

// Request status values. Staff may move a request in either direction on the
// board, there is no terminal state.
const (
	RequestStatusNew       = "new"
	RequestStatusPending   = "pending"
	RequestStatusCompleted = "completed"
)

// DefaultRequestText is stored when a customer submits an order without a
// menu item or a note.
const DefaultRequestText = "no specific request"

type ServiceRequest struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	TableNumber  int        `gorm:"not null;index" json:"table_number"`
	Request      string     `gorm:"type:text;not null" json:"request"`
	Status       string     `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	UserID       string     `gorm:"type:varchar(64);not null;index" json:"user_id"`
	UserName     string     `gorm:"type:varchar(255)" json:"user_name"`
	Deleted      bool       `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ResponseTime *int64     `json:"response_time,omitempty"`
}

func (ServiceRequest) TableName() string {
	return "waiter_requests"
}

// IsValidRequestStatus reports whether s is one of the three board statuses.
func IsValidRequestStatus(s string) bool {
	return s == RequestStatusNew || s == RequestStatusPending || s == RequestStatusCompleted
}
