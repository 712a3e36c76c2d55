package services

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/utils"
)

type LoyaltyService struct {
	DB *gorm.DB
	// Loc fixes the calendar-day boundary for the once-per-day accrual.
	// Client clocks are never consulted.
	Loc *time.Location
}

func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	loc := time.UTC
	if tz := os.Getenv("CAFE_TIMEZONE"); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		} else {
			utils.ErrorLogger.Printf("Invalid CAFE_TIMEZONE %q, falling back to UTC: %v", tz, err)
		}
	}
	return &LoyaltyService{DB: db, Loc: loc}
}

// GiftForPoints derives the gift label from the point balance. Exactly 10 and
// exactly 20 are the fresh tiers, the bands above them mark tiers the
// customer already passed through.
func GiftForPoints(points int) *string {
	var label string
	switch {
	case points == 10:
		label = models.GiftFreeDrink
	case points > 10 && points < 20:
		label = models.GiftHadFreeDrink
	case points == 20:
		label = models.GiftDiscount
	case points > 20:
		label = models.GiftHadDiscount
	default:
		return nil
	}
	return &label
}

// RewardForPoints maps the current total to the reward signaled after an
// accrual.
func RewardForPoints(points int) string {
	switch {
	case points >= 20:
		return models.RewardSpecialDiscount
	case points >= 10:
		return models.RewardFreeDrink
	default:
		return ""
	}
}

// PointsToNextReward -> how many points remain until the next tier.
func PointsToNextReward(points int) int {
	switch {
	case points < 10:
		return 10 - points
	case points < 20:
		return 20 - points
	default:
		return 0
	}
}

type VisitResult struct {
	Points              int    `json:"points"`
	Reward              string `json:"reward,omitempty"`
	PointsToNext        int    `json:"points_to_next"`
	AlreadyVisitedToday bool   `json:"already_visited_today"`
	IsNewUser           bool   `json:"is_new_user"`
}

// RegisterVisit -> accrue at most one point per calendar day. The accrual is
// a conditional UPDATE keyed on the stored visit date, so two concurrent
// requests on the same day cannot double-count.
func (ls *LoyaltyService) RegisterVisit(userID, userName string) (*VisitResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "user_id", Message: "user id is required"}
	}

	now := time.Now().In(ls.Loc)

	var acct models.LoyaltyAccount
	err := ls.DB.Where("user_id = ?", userID).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		acct = models.LoyaltyAccount{
			UserID:    userID,
			UserName:  userName,
			Points:    1,
			LastVisit: now,
			Gift:      GiftForPoints(1),
			Status:    models.ApprovalApproved,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := ls.DB.Create(&acct).Error; err != nil {
			return nil, err
		}
		return &VisitResult{
			Points:       1,
			Reward:       RewardForPoints(1),
			PointsToNext: PointsToNextReward(1),
			IsNewUser:    true,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	res := ls.DB.Model(&models.LoyaltyAccount{}).
		Where("user_id = ? AND DATE(last_visit) <> ?", userID, now.Format("2006-01-02")).
		Updates(map[string]interface{}{
			"points":     gorm.Expr("points + 1"),
			"last_visit": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return &VisitResult{
			Points:              acct.Points,
			PointsToNext:        PointsToNextReward(acct.Points),
			AlreadyVisitedToday: true,
		}, nil
	}

	// Re-read the authoritative total before deriving anything from it.
	if err := ls.DB.Where("user_id = ?", userID).First(&acct).Error; err != nil {
		return nil, err
	}
	if err := ls.applyGift(&acct); err != nil {
		return nil, err
	}

	return &VisitResult{
		Points:       acct.Points,
		Reward:       RewardForPoints(acct.Points),
		PointsToNext: PointsToNextReward(acct.Points),
	}, nil
}

// GetAccount -> fetch one account by user id.
func (ls *LoyaltyService) GetAccount(userID string) (*models.LoyaltyAccount, error) {
	var acct models.LoyaltyAccount
	if err := ls.DB.Where("user_id = ?", userID).First(&acct).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

type RedeemResult struct {
	Points  int                    `json:"points"`
	Item    models.MenuItem        `json:"item"`
	Request *models.ServiceRequest `json:"request,omitempty"`
}

// Redeem -> spend points on a menu item. The balance is refreshed from the
// store first, insufficient points reject without mutating anything. After a
// successful decrement an order row marked "(purchased with loyalty points)"
// is appended; if that insert fails the deduction has already happened and a
// PartialRedeemError is returned so the caller can say so.
func (ls *LoyaltyService) Redeem(userID, userName string, itemID uint, tableNumber int) (*RedeemResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "user_id", Message: "user id is required"}
	}
	if tableNumber <= 0 {
		return nil, &ValidationError{Field: "table_number", Message: "table number must be positive"}
	}

	var acct models.LoyaltyAccount
	if err := ls.DB.Where("user_id = ?", userID).First(&acct).Error; err != nil {
		return nil, err
	}

	var item models.MenuItem
	if err := ls.DB.First(&item, itemID).Error; err != nil {
		return nil, err
	}
	if item.PointsPrice <= 0 {
		return nil, &ValidationError{Field: "item_id", Message: "item cannot be redeemed with points"}
	}

	if acct.Points < item.PointsPrice {
		return nil, ErrInsufficientPoints
	}

	newPoints := acct.Points - item.PointsPrice
	if newPoints < 0 {
		newPoints = 0
	}

	now := time.Now().In(ls.Loc)
	if err := ls.DB.Model(&models.LoyaltyAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"points":     newPoints,
			"gift":       GiftForPoints(newPoints),
			"updated_at": now,
		}).Error; err != nil {
		return nil, err
	}

	req := &models.ServiceRequest{
		ID:          uuid.NewString(),
		TableNumber: tableNumber,
		Request:     item.NameEn + " (purchased with loyalty points)",
		Status:      models.RequestStatusNew,
		UserID:      userID,
		UserName:    userName,
		CreatedAt:   time.Now(),
	}
	if err := ls.DB.Create(req).Error; err != nil {
		return nil, &PartialRedeemError{Points: newPoints, Err: err}
	}

	return &RedeemResult{Points: newPoints, Item: item, Request: req}, nil
}

// SetApprovalStatus -> staff correction of a point grant. Only the
// rejected/pending -> approved and approved -> rejected edges move the
// balance; repeating the current status changes nothing.
func (ls *LoyaltyService) SetApprovalStatus(userID, status string) (*models.LoyaltyAccount, error) {
	if !models.IsValidApprovalStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "unknown status: " + status}
	}

	var acct models.LoyaltyAccount
	if err := ls.DB.Where("user_id = ?", userID).First(&acct).Error; err != nil {
		return nil, err
	}

	points := acct.Points
	switch {
	case acct.Status != models.ApprovalApproved && status == models.ApprovalApproved:
		points++
	case acct.Status == models.ApprovalApproved && status == models.ApprovalRejected:
		points--
		if points < 0 {
			points = 0
		}
	}

	if err := ls.DB.Model(&models.LoyaltyAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":     status,
			"points":     points,
			"gift":       GiftForPoints(points),
			"updated_at": time.Now().In(ls.Loc),
		}).Error; err != nil {
		return nil, err
	}

	acct.Status = status
	acct.Points = points
	acct.Gift = GiftForPoints(points)
	return &acct, nil
}

// ReconcileGiftLabels -> bulk pass comparing every stored label against the
// freshly derived one and correcting mismatches. Running it twice in a row
// writes nothing the second time.
func (ls *LoyaltyService) ReconcileGiftLabels() (int, error) {
	var accounts []models.LoyaltyAccount
	if err := ls.DB.Find(&accounts).Error; err != nil {
		return 0, err
	}

	fixed := 0
	for _, acct := range accounts {
		want := GiftForPoints(acct.Points)
		if giftEqual(acct.Gift, want) {
			continue
		}
		if err := ls.DB.Model(&models.LoyaltyAccount{}).
			Where("user_id = ?", acct.UserID).
			Update("gift", want).Error; err != nil {
			return fixed, err
		}
		fixed++
	}

	if fixed > 0 {
		utils.InfoLogger.Printf("Gift label reconciliation corrected %d accounts", fixed)
	}
	return fixed, nil
}

func (ls *LoyaltyService) applyGift(acct *models.LoyaltyAccount) error {
	want := GiftForPoints(acct.Points)
	if giftEqual(acct.Gift, want) {
		return nil
	}
	if err := ls.DB.Model(&models.LoyaltyAccount{}).
		Where("user_id = ?", acct.UserID).
		Update("gift", want).Error; err != nil {
		return err
	}
	acct.Gift = want
	return nil
}

func giftEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
