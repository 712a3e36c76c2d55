package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/board"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenuItems -> catalog for customers, available items only.
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	query := mc.DB.Where("available = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Order("category asc, name_en asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// GetMenuItemByID -> detail of one item with its formatted price.
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", gin.H{
		"item":            item,
		"price_formatted": utils.FormatCurrencyEGP(item.Price),
	})
}

// CreateMenuItem -> staff add a catalog item.
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	type reqBody struct {
		NameEn      string  `json:"name_en" binding:"required"`
		NameAr      string  `json:"name_ar" binding:"required"`
		Category    string  `json:"category"`
		Price       float64 `json:"price" binding:"required"`
		PointsPrice int     `json:"points_price"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		NameEn:      body.NameEn,
		NameAr:      body.NameAr,
		Category:    body.Category,
		Price:       body.Price,
		PointsPrice: body.PointsPrice,
		Available:   true,
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastMenuUpdate(item)

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem -> staff edit price, names, point cost or availability.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		NameEn      *string  `json:"name_en"`
		NameAr      *string  `json:"name_ar"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		PointsPrice *int     `json:"points_price"`
		Available   *bool    `json:"available"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.NameEn != nil {
		item.NameEn = *body.NameEn
	}
	if body.NameAr != nil {
		item.NameAr = *body.NameAr
	}
	if body.Category != nil {
		item.Category = *body.Category
	}
	if body.Price != nil {
		item.Price = *body.Price
	}
	if body.PointsPrice != nil {
		item.PointsPrice = *body.PointsPrice
	}
	if body.Available != nil {
		item.Available = *body.Available
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastMenuUpdate(item)

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem -> staff remove an item from the catalog.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	if err := mc.DB.Delete(&models.MenuItem{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": id})
}
