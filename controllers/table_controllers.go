package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/board"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetAllTables -> every table with its status, for the pick-a-table screen.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.CafeTable
	if err := tc.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// PickTable -> customer takes a table for the session.
func (tc *TableController) PickTable(c *gin.Context) {
	number, _ := strconv.Atoi(c.Param("table_number"))

	var table models.CafeTable
	if err := tc.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if table.Status != "available" {
		utils.RespondError(c, http.StatusConflict, ErrTableOccupied)
		return
	}

	table.Status = "occupied"
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d occupied", table.TableNumber)

	utils.RespondJSON(c, http.StatusOK, "Table picked", table)
}

// ReleaseTable -> staff free a table after the customer leaves.
func (tc *TableController) ReleaseTable(c *gin.Context) {
	number, _ := strconv.Atoi(c.Param("table_number"))

	var table models.CafeTable
	if err := tc.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table.Status = "available"
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastTableUpdate(table)

	utils.RespondJSON(c, http.StatusOK, "Table released", table)
}

// CreateTable -> admin adds a numbered table.
func (tc *TableController) CreateTable(c *gin.Context) {
	type reqBody struct {
		TableNumber int `json:"table_number" binding:"required"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.TableNumber <= 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("table number must be positive"))
		return
	}

	table := models.CafeTable{
		TableNumber: body.TableNumber,
		Status:      "available",
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

var ErrTableOccupied = &CustomError{"Table is not available"}
