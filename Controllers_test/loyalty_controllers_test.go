package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/controllers"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/services"
)

func setupTestDBForLoyalty(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.LoyaltyAccount{}, &models.MenuItem{}, &models.ServiceRequest{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupLoyaltyRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	loyaltyCtrl := controllers.NewLoyaltyController(db)
	router.POST("/loyalty/visit", loyaltyCtrl.RegisterVisit)
	router.GET("/loyalty/:user_id", loyaltyCtrl.GetAccount)
	router.POST("/loyalty/redeem", loyaltyCtrl.Redeem)
	router.PATCH("/admin/loyalty/:user_id/approval", loyaltyCtrl.SetApprovalStatus)
	router.POST("/admin/loyalty/reconcile-gifts", loyaltyCtrl.ReconcileGifts)
	return router
}

func TestRegisterVisitEndpoint(t *testing.T) {
	db := setupTestDBForLoyalty(t)
	router := setupLoyaltyRouter(db)

	payload, _ := json.Marshal(map[string]string{
		"user_id":   "user-1",
		"user_name": "Amir",
	})

	req, _ := http.NewRequest("POST", "/loyalty/visit", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Points       int  `json:"points"`
			IsNewUser    bool `json:"is_new_user"`
			PointsToNext int  `json:"points_to_next"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Points)
	assert.True(t, resp.Data.IsNewUser)
	assert.Equal(t, 9, resp.Data.PointsToNext)

	// Second visit the same day changes nothing
	req, _ = http.NewRequest("POST", "/loyalty/visit", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp2 struct {
		Data struct {
			Points              int  `json:"points"`
			AlreadyVisitedToday bool `json:"already_visited_today"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp2))
	assert.Equal(t, 1, resp2.Data.Points)
	assert.True(t, resp2.Data.AlreadyVisitedToday)
}

func TestRedeemEndpoint(t *testing.T) {
	db := setupTestDBForLoyalty(t)
	router := setupLoyaltyRouter(db)

	db.Create(&models.LoyaltyAccount{
		UserID:    "user-1",
		UserName:  "Amir",
		Points:    20,
		LastVisit: time.Now(),
		Gift:      services.GiftForPoints(20),
		Status:    models.ApprovalApproved,
	})
	item := models.MenuItem{NameEn: "Turkish Coffee", NameAr: "قهوة تركية", Price: 45, PointsPrice: 5, Available: true}
	db.Create(&item)

	payload, _ := json.Marshal(map[string]interface{}{
		"user_id":      "user-1",
		"user_name":    "Amir",
		"item_id":      item.ID,
		"table_number": 3,
	})

	req, _ := http.NewRequest("POST", "/loyalty/redeem", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Points int `json:"points"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 15, resp.Data.Points)

	// An audit request row was appended
	var count int64
	db.Model(&models.ServiceRequest{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRedeemInsufficientPointsEndpoint(t *testing.T) {
	db := setupTestDBForLoyalty(t)
	router := setupLoyaltyRouter(db)

	db.Create(&models.LoyaltyAccount{
		UserID:    "user-1",
		Points:    2,
		LastVisit: time.Now(),
		Status:    models.ApprovalApproved,
	})
	item := models.MenuItem{NameEn: "Latte", NameAr: "لاتيه", Price: 60, PointsPrice: 5, Available: true}
	db.Create(&item)

	payload, _ := json.Marshal(map[string]interface{}{
		"user_id":      "user-1",
		"item_id":      item.ID,
		"table_number": 3,
	})

	req, _ := http.NewRequest("POST", "/loyalty/redeem", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var acct models.LoyaltyAccount
	assert.NoError(t, db.Where("user_id = ?", "user-1").First(&acct).Error)
	assert.Equal(t, 2, acct.Points)
}

func TestApprovalEndpoint(t *testing.T) {
	db := setupTestDBForLoyalty(t)
	router := setupLoyaltyRouter(db)

	db.Create(&models.LoyaltyAccount{
		UserID:    "user-1",
		Points:    3,
		LastVisit: time.Now(),
		Status:    models.ApprovalPending,
	})

	body, _ := json.Marshal(map[string]string{"status": "approved"})
	req, _ := http.NewRequest("PATCH", "/admin/loyalty/user-1/approval", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Points int    `json:"points"`
			Status string `json:"status"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Points)
	assert.Equal(t, "approved", resp.Data.Status)

	// And back to rejected
	body, _ = json.Marshal(map[string]string{"status": "rejected"})
	req, _ = http.NewRequest("PATCH", "/admin/loyalty/user-1/approval", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.Points)
}

func TestReconcileGiftsEndpoint(t *testing.T) {
	db := setupTestDBForLoyalty(t)
	router := setupLoyaltyRouter(db)

	wrong := "20% discount"
	db.Create(&models.LoyaltyAccount{
		UserID:    "user-1",
		Points:    12,
		LastVisit: time.Now(),
		Gift:      &wrong,
		Status:    models.ApprovalApproved,
	})

	req, _ := http.NewRequest("POST", "/admin/loyalty/reconcile-gifts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Corrected int `json:"corrected"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Corrected)
}
