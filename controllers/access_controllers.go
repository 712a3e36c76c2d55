package controllers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/utils"
)

type AccessController struct {
	DB *gorm.DB
}

func NewAccessController(db *gorm.DB) *AccessController {
	return &AccessController{DB: db}
}

// VerifyCode -> customer enters the code shown in the café before ordering.
func (ac *AccessController) VerifyCode(c *gin.Context) {
	type reqBody struct {
		Code string `json:"code" binding:"required"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	today := time.Now().Format("2006-01-02")

	var code models.DailyCode
	err := ac.DB.Where("valid_on = ?", today).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("no access code set for today"))
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if body.Code != code.Code {
		utils.RespondJSON(c, http.StatusOK, "Code rejected", gin.H{"valid": false})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Code accepted", gin.H{"valid": true})
}

// GetTodayCode -> staff read the current code to display it in the café.
func (ac *AccessController) GetTodayCode(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var code models.DailyCode
	if err := ac.DB.Where("valid_on = ?", today).First(&code).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Today's code", code)
}

// RotateCode -> staff set a new code for today. An explicit code in the body
// wins, otherwise a random 4-digit one is generated.
func (ac *AccessController) RotateCode(c *gin.Context) {
	type reqBody struct {
		Code string `json:"code"`
	}

	// Body is optional, a missing code means "generate one".
	var body reqBody
	_ = c.ShouldBindJSON(&body)

	newCode := body.Code
	if newCode == "" {
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		newCode = fmt.Sprintf("%04d", n.Int64())
	}

	today := time.Now().Format("2006-01-02")

	var code models.DailyCode
	err := ac.DB.Where("valid_on = ?", today).First(&code).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = models.DailyCode{Code: newCode, ValidOn: today, CreatedAt: time.Now()}
		if err := ac.DB.Create(&code).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	default:
		code.Code = newCode
		if err := ac.DB.Save(&code).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.InfoLogger.Printf("Daily access code rotated for %s", today)

	utils.RespondJSON(c, http.StatusOK, "Code rotated", code)
}
