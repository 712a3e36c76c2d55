package services

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupLoyaltyDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(&models.LoyaltyAccount{}, &models.MenuItem{}, &models.ServiceRequest{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, userID string, points int, lastVisit time.Time) {
	acct := models.LoyaltyAccount{
		UserID:    userID,
		UserName:  "Test Customer",
		Points:    points,
		LastVisit: lastVisit,
		Gift:      GiftForPoints(points),
		Status:    models.ApprovalApproved,
		CreatedAt: lastVisit,
		UpdatedAt: lastVisit,
	}
	if err := db.Create(&acct).Error; err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
}

func TestRegisterVisitNewUser(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	result, err := ls.RegisterVisit("user-1", "Amir")
	assert.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, 1, result.Points)
	assert.Equal(t, "", result.Reward)
	assert.Equal(t, 9, result.PointsToNext)
	assert.False(t, result.AlreadyVisitedToday)
}

func TestRegisterVisitSameDayIsIdempotent(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	first, err := ls.RegisterVisit("user-1", "Amir")
	assert.NoError(t, err)

	second, err := ls.RegisterVisit("user-1", "Amir")
	assert.NoError(t, err)
	assert.True(t, second.AlreadyVisitedToday)
	assert.Equal(t, first.Points, second.Points)

	var acct models.LoyaltyAccount
	assert.NoError(t, db.Where("user_id = ?", "user-1").First(&acct).Error)
	assert.Equal(t, 1, acct.Points)
}

func TestRegisterVisitNextDayAccrues(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	yesterday := time.Now().In(ls.Loc).Add(-24 * time.Hour)
	seedAccount(t, db, "user-1", 3, yesterday)

	result, err := ls.RegisterVisit("user-1", "Amir")
	assert.NoError(t, err)
	assert.False(t, result.AlreadyVisitedToday)
	assert.False(t, result.IsNewUser)
	assert.Equal(t, 4, result.Points)
	assert.Equal(t, 6, result.PointsToNext)
}

func TestRegisterVisitTenthPointEarnsFreeDrink(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	yesterday := time.Now().In(ls.Loc).Add(-24 * time.Hour)
	seedAccount(t, db, "user-1", 9, yesterday)

	result, err := ls.RegisterVisit("user-1", "Amir")
	assert.NoError(t, err)
	assert.Equal(t, 10, result.Points)
	assert.Equal(t, models.RewardFreeDrink, result.Reward)

	var acct models.LoyaltyAccount
	assert.NoError(t, db.Where("user_id = ?", "user-1").First(&acct).Error)
	if assert.NotNil(t, acct.Gift) {
		assert.Equal(t, models.GiftFreeDrink, *acct.Gift)
	}
}

func TestGiftForPoints(t *testing.T) {
	assert.Nil(t, GiftForPoints(0))
	assert.Nil(t, GiftForPoints(9))
	assert.Equal(t, models.GiftFreeDrink, *GiftForPoints(10))
	assert.Equal(t, models.GiftHadFreeDrink, *GiftForPoints(15))
	assert.Equal(t, models.GiftHadFreeDrink, *GiftForPoints(19))
	assert.Equal(t, models.GiftDiscount, *GiftForPoints(20))
	assert.Equal(t, models.GiftHadDiscount, *GiftForPoints(25))
}

func TestRewardForPoints(t *testing.T) {
	assert.Equal(t, "", RewardForPoints(9))
	assert.Equal(t, models.RewardFreeDrink, RewardForPoints(10))
	assert.Equal(t, models.RewardFreeDrink, RewardForPoints(19))
	assert.Equal(t, models.RewardSpecialDiscount, RewardForPoints(20))
	assert.Equal(t, models.RewardSpecialDiscount, RewardForPoints(27))
}

func TestRedeemHappyPath(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	seedAccount(t, db, "user-1", 20, time.Now())
	item := models.MenuItem{NameEn: "Turkish Coffee", NameAr: "قهوة تركية", Price: 45, PointsPrice: 5, Available: true}
	assert.NoError(t, db.Create(&item).Error)

	result, err := ls.Redeem("user-1", "Amir", item.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, 15, result.Points)

	// The label regresses into the claimed free-drink band after spending
	// down from 20.
	var acct models.LoyaltyAccount
	assert.NoError(t, db.Where("user_id = ?", "user-1").First(&acct).Error)
	assert.Equal(t, 15, acct.Points)
	if assert.NotNil(t, acct.Gift) {
		assert.Equal(t, models.GiftHadFreeDrink, *acct.Gift)
	}

	// Audit row appended
	var req models.ServiceRequest
	assert.NoError(t, db.Where("user_id = ?", "user-1").First(&req).Error)
	assert.Contains(t, req.Request, "(purchased with loyalty points)")
	assert.Equal(t, models.RequestStatusNew, req.Status)
	assert.Equal(t, 3, req.TableNumber)
}

func TestRedeemInsufficientPoints(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	seedAccount(t, db, "user-1", 3, time.Now())
	item := models.MenuItem{NameEn: "Latte", NameAr: "لاتيه", Price: 60, PointsPrice: 5, Available: true}
	assert.NoError(t, db.Create(&item).Error)

	_, err := ls.Redeem("user-1", "Amir", item.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// Nothing mutated
	var acct models.LoyaltyAccount
	assert.NoError(t, db.Where("user_id = ?", "user-1").First(&acct).Error)
	assert.Equal(t, 3, acct.Points)

	var count int64
	db.Model(&models.ServiceRequest{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRedeemNonRedeemableItem(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	seedAccount(t, db, "user-1", 20, time.Now())
	item := models.MenuItem{NameEn: "Water", NameAr: "مياه", Price: 10, PointsPrice: 0, Available: true}
	assert.NoError(t, db.Create(&item).Error)

	_, err := ls.Redeem("user-1", "Amir", item.ID, 3)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSetApprovalStatusTransitions(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	seedAccount(t, db, "user-1", 3, time.Now())
	assert.NoError(t, db.Model(&models.LoyaltyAccount{}).
		Where("user_id = ?", "user-1").
		Update("status", models.ApprovalPending).Error)

	// pending -> approved: +1
	acct, err := ls.SetApprovalStatus("user-1", models.ApprovalApproved)
	assert.NoError(t, err)
	assert.Equal(t, 4, acct.Points)

	// approved -> approved: no double count
	acct, err = ls.SetApprovalStatus("user-1", models.ApprovalApproved)
	assert.NoError(t, err)
	assert.Equal(t, 4, acct.Points)

	// approved -> rejected: -1
	acct, err = ls.SetApprovalStatus("user-1", models.ApprovalRejected)
	assert.NoError(t, err)
	assert.Equal(t, 3, acct.Points)

	// rejected -> pending: unchanged
	acct, err = ls.SetApprovalStatus("user-1", models.ApprovalPending)
	assert.NoError(t, err)
	assert.Equal(t, 3, acct.Points)
}

func TestSetApprovalStatusFloorsAtZero(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	seedAccount(t, db, "user-1", 0, time.Now())

	acct, err := ls.SetApprovalStatus("user-1", models.ApprovalRejected)
	assert.NoError(t, err)
	assert.Equal(t, 0, acct.Points)
}

func TestReconcileGiftLabelsIsIdempotent(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	seedAccount(t, db, "user-1", 12, time.Now())
	seedAccount(t, db, "user-2", 4, time.Now())

	// Corrupt one label
	wrong := "free drink"
	assert.NoError(t, db.Model(&models.LoyaltyAccount{}).
		Where("user_id = ?", "user-1").
		Update("gift", &wrong).Error)

	fixed, err := ls.ReconcileGiftLabels()
	assert.NoError(t, err)
	assert.Equal(t, 1, fixed)

	fixed, err = ls.ReconcileGiftLabels()
	assert.NoError(t, err)
	assert.Equal(t, 0, fixed)

	var acct models.LoyaltyAccount
	assert.NoError(t, db.Where("user_id = ?", "user-1").First(&acct).Error)
	if assert.NotNil(t, acct.Gift) {
		assert.Equal(t, models.GiftHadFreeDrink, *acct.Gift)
	}
}

func TestRegisterVisitRequiresUserID(t *testing.T) {
	db := setupLoyaltyDB(t)
	ls := NewLoyaltyService(db)

	_, err := ls.RegisterVisit("  ", "Amir")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
