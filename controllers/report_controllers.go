package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/utils"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// GetRequestStats -> per-status counts and average response time over
// completed requests. Soft-deleted rows are counted separately.
func (rc *ReportController) GetRequestStats(c *gin.Context) {
	var stats struct {
		New             int64    `json:"new"`
		Pending         int64    `json:"pending"`
		Completed       int64    `json:"completed"`
		Deleted         int64    `json:"deleted"`
		AvgResponseTime *float64 `json:"avg_response_time,omitempty"`
	}

	base := rc.DB.Model(&models.ServiceRequest{}).Where("deleted = ?", false)
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.RequestStatusNew).Count(&stats.New).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	base.Session(&gorm.Session{}).Where("status = ?", models.RequestStatusPending).Count(&stats.Pending)
	base.Session(&gorm.Session{}).Where("status = ?", models.RequestStatusCompleted).Count(&stats.Completed)
	rc.DB.Model(&models.ServiceRequest{}).Where("deleted = ?", true).Count(&stats.Deleted)

	rc.DB.Model(&models.ServiceRequest{}).
		Where("response_time IS NOT NULL AND deleted = ?", false).
		Select("AVG(response_time)").
		Row().Scan(&stats.AvgResponseTime)

	utils.RespondJSON(c, http.StatusOK, "Request stats", stats)
}

// GetLoyaltyStats -> balances overview for the staff reports page.
func (rc *ReportController) GetLoyaltyStats(c *gin.Context) {
	var stats struct {
		Accounts    int64                   `json:"accounts"`
		TotalPoints int64                   `json:"total_points"`
		Pending     int64                   `json:"pending_approvals"`
		TopBalances []models.LoyaltyAccount `json:"top_balances"`
	}

	if err := rc.DB.Model(&models.LoyaltyAccount{}).Count(&stats.Accounts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	rc.DB.Model(&models.LoyaltyAccount{}).Select("COALESCE(SUM(points), 0)").Row().Scan(&stats.TotalPoints)
	rc.DB.Model(&models.LoyaltyAccount{}).Where("status = ?", models.ApprovalPending).Count(&stats.Pending)
	rc.DB.Order("points desc").Limit(5).Find(&stats.TopBalances)

	utils.RespondJSON(c, http.StatusOK, "Loyalty stats", stats)
}

// GetCatalogStats -> catalog size and value, price formatted for display.
func (rc *ReportController) GetCatalogStats(c *gin.Context) {
	var count int64
	var totalValue float64

	if err := rc.DB.Model(&models.MenuItem{}).Where("available = ?", true).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	rc.DB.Model(&models.MenuItem{}).Where("available = ?", true).
		Select("COALESCE(SUM(price), 0)").Row().Scan(&totalValue)

	utils.RespondJSON(c, http.StatusOK, "Catalog stats", gin.H{
		"items":                 count,
		"total_value":           totalValue,
		"total_value_formatted": utils.FormatCurrencyEGP(totalValue),
	})
}
