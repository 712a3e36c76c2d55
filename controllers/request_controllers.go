package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/board"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/services"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/utils"
)

type RequestController struct {
	DB      *gorm.DB
	Service *services.RequestService
}

func NewRequestController(db *gorm.DB) *RequestController {
	return &RequestController{DB: db, Service: services.NewRequestService(db)}
}

// SubmitRequest -> customer places an order or calls a waiter. An order
// carries an item name, a waiter call usually just a note; both may be empty.
func (rc *RequestController) SubmitRequest(c *gin.Context) {
	type reqBody struct {
		TableNumber int    `json:"table_number" binding:"required"`
		ItemName    string `json:"item_name"`
		Note        string `json:"note"`
		UserID      string `json:"user_id" binding:"required"`
		UserName    string `json:"user_name"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req, err := rc.Service.Submit(body.TableNumber, body.ItemName, body.Note, body.UserID, body.UserName)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			utils.RespondError(c, http.StatusBadRequest, verr)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastRequestUpdate(*req)
	board.BroadcastStaffNotification(fmt.Sprintf("New request from table %d", req.TableNumber))

	utils.RespondJSON(c, http.StatusCreated, "Request created", req)
}

// GetBoard -> the three kanban buckets for the staff board.
func (rc *RequestController) GetBoard(c *gin.Context) {
	b, err := rc.Service.Board()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Request board", b)
}

// GetRequestByID -> one request with its current elapsed seconds.
func (rc *RequestController) GetRequestByID(c *gin.Context) {
	id := c.Param("request_id")

	var req models.ServiceRequest
	if err := rc.DB.Where("id = ? AND deleted = ?", id, false).First(&req).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Request detail", gin.H{
		"request":         req,
		"elapsed_seconds": services.ElapsedSeconds(&req, time.Now()),
	})
}

// TransitionRequest -> staff drags a card to another column.
func (rc *RequestController) TransitionRequest(c *gin.Context) {
	id := c.Param("request_id")

	type reqBody struct {
		Status string `json:"status" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req, err := rc.Service.Transition(id, body.Status)
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

	board.BroadcastRequestUpdate(*req)

	utils.RespondJSON(c, http.StatusOK, "Request updated", req)
}

// DeleteRequest -> soft delete, the row stays in storage.
func (rc *RequestController) DeleteRequest(c *gin.Context) {
	id := c.Param("request_id")

	if err := rc.Service.SoftDelete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastRequestDelete(id)

	utils.RespondJSON(c, http.StatusOK, "Request deleted", gin.H{"request_id": id})
}

// GetAllRequests -> full history for staff, soft-deleted rows included.
func (rc *RequestController) GetAllRequests(c *gin.Context) {
	var reqs []models.ServiceRequest
	if err := rc.DB.Order("created_at desc").Find(&reqs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of requests", reqs)
}
