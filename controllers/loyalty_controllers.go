package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/board"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/services"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/utils"
)

type LoyaltyController struct {
	DB      *gorm.DB
	Service *services.LoyaltyService
}

func NewLoyaltyController(db *gorm.DB) *LoyaltyController {
	return &LoyaltyController{DB: db, Service: services.NewLoyaltyService(db)}
}

// RegisterVisit -> called once when the customer starts a session. At most
// one point per calendar day is accrued.
func (lc *LoyaltyController) RegisterVisit(c *gin.Context) {
	type reqBody struct {
		UserID   string `json:"user_id" binding:"required"`
		UserName string `json:"user_name"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := lc.Service.RegisterVisit(body.UserID, body.UserName)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			utils.RespondError(c, http.StatusBadRequest, verr)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if !result.AlreadyVisitedToday {
		if acct, err := lc.Service.GetAccount(body.UserID); err == nil {
			board.BroadcastLoyaltyUpdate(*acct)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Visit registered", result)
}

// GetAccount -> current balance and gift label for one customer.
func (lc *LoyaltyController) GetAccount(c *gin.Context) {
	userID := c.Param("user_id")

	acct, err := lc.Service.GetAccount(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Loyalty account", gin.H{
		"account":        acct,
		"reward":         services.RewardForPoints(acct.Points),
		"points_to_next": services.PointsToNextReward(acct.Points),
	})
}

// Redeem -> spend points on a menu item. A partial failure (points deducted,
// order record missing) is reported with 502 so the client can warn the
// customer instead of retrying.
func (lc *LoyaltyController) Redeem(c *gin.Context) {
	type reqBody struct {
		UserID      string `json:"user_id" binding:"required"`
		UserName    string `json:"user_name"`
		ItemID      uint   `json:"item_id" binding:"required"`
		TableNumber int    `json:"table_number" binding:"required"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := lc.Service.Redeem(body.UserID, body.UserName, body.ItemID, body.TableNumber)
	if err != nil {
		var verr *services.ValidationError
		var perr *services.PartialRedeemError
		switch {
		case errors.Is(err, services.ErrInsufficientPoints):
			utils.RespondError(c, http.StatusConflict, err)
		case errors.As(err, &verr):
			utils.RespondError(c, http.StatusBadRequest, verr)
		case errors.As(err, &perr):
			c.JSON(http.StatusBadGateway, gin.H{
				"status":  false,
				"message": perr.Error(),
				"data":    gin.H{"points": perr.Points, "points_deducted": true},
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	if acct, err := lc.Service.GetAccount(body.UserID); err == nil {
		board.BroadcastLoyaltyUpdate(*acct)
	}
	if result.Request != nil {
		board.BroadcastRequestUpdate(*result.Request)
	}

	utils.RespondJSON(c, http.StatusOK, "Item redeemed", result)
}

// SetApprovalStatus -> staff approve or reject a point grant.
func (lc *LoyaltyController) SetApprovalStatus(c *gin.Context) {
	userID := c.Param("user_id")

	type reqBody struct {
		Status string `json:"status" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	acct, err := lc.Service.SetApprovalStatus(userID, body.Status)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			utils.RespondError(c, http.StatusBadRequest, verr)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	board.BroadcastLoyaltyUpdate(*acct)

	utils.RespondJSON(c, http.StatusOK, "Approval status updated", acct)
}

// ReconcileGifts -> admin maintenance pass fixing stale gift labels.
func (lc *LoyaltyController) ReconcileGifts(c *gin.Context) {
	fixed, err := lc.Service.ReconcileGiftLabels()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Gift labels reconciled", gin.H{"corrected": fixed})
}

// GetAllAccounts -> staff listing, highest balance first.
func (lc *LoyaltyController) GetAllAccounts(c *gin.Context) {
	var accounts []models.LoyaltyAccount
	if err := lc.DB.Order("points desc").Find(&accounts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of loyalty accounts", accounts)
}
