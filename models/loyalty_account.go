package models

import "time"

// Approval status for staff-reviewed point grants.
const (
	ApprovalApproved = "approved"
	ApprovalPending  = "pending"
	ApprovalRejected = "rejected"
)

// Gift labels derived from the point balance. The "had" variants mark tiers
// the customer passed through already.
const (
	GiftFreeDrink    = "free drink"
	GiftHadFreeDrink = "had free drink"
	GiftDiscount     = "20% discount"
	GiftHadDiscount  = "had 20% discount"
)

// Reward names returned right after an accrual.
const (
	RewardFreeDrink       = "free_drink"
	RewardSpecialDiscount = "special_discount"
)

type LoyaltyAccount struct {
	UserID      string    `gorm:"type:varchar(64);primaryKey" json:"user_id"`
	UserName    string    `gorm:"type:varchar(255)" json:"user_name"`
	Points      int       `gorm:"not null;default:0" json:"points"`
	LastVisit   time.Time `gorm:"not null" json:"last_visit"`
	Gift        *string   `gorm:"type:varchar(50)" json:"gift"`
	GiftClaimed bool      `gorm:"not null;default:false" json:"gift_claimed"`
	Status      string    `gorm:"type:varchar(20);not null;default:'approved'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (LoyaltyAccount) TableName() string {
	return "loyalty_points"
}

// IsValidApprovalStatus reports whether s is a known approval status.
func IsValidApprovalStatus(s string) bool {
	return s == ApprovalApproved || s == ApprovalPending || s == ApprovalRejected
}
