package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
)

type RequestService struct {
	DB *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{DB: db}
}

// ComposeRequestText joins the chosen menu item and the free-text note with
// " - ". Both empty => the default label.
func ComposeRequestText(itemName, note string) string {
	itemName = strings.TrimSpace(itemName)
	note = strings.TrimSpace(note)

	switch {
	case itemName != "" && note != "":
		return itemName + " - " + note
	case itemName != "":
		return itemName
	case note != "":
		return note
	default:
		return models.DefaultRequestText
	}
}

// Submit -> create a request with status 'new'
func (rs *RequestService) Submit(tableNumber int, itemName, note, userID, userName string) (*models.ServiceRequest, error) {
	if tableNumber <= 0 {
		return nil, &ValidationError{Field: "table_number", Message: "table number must be positive"}
	}
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "user_id", Message: "user id is required"}
	}

	req := &models.ServiceRequest{
		ID:          uuid.NewString(),
		TableNumber: tableNumber,
		Request:     ComposeRequestText(itemName, note),
		Status:      models.RequestStatusNew,
		UserID:      userID,
		UserName:    userName,
		CreatedAt:   time.Now(),
	}
	if err := rs.DB.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// Transition -> move a visible request to target status. Entering 'completed'
// stamps completed_at and response_time (whole seconds since creation);
// leaving 'completed' clears both so a later completion recomputes cleanly.
func (rs *RequestService) Transition(id, target string) (*models.ServiceRequest, error) {
	if !models.IsValidRequestStatus(target) {
		return nil, &ValidationError{Field: "status", Message: "unknown status: " + target}
	}

	var req models.ServiceRequest
	if err := rs.DB.Where("id = ? AND deleted = ?", id, false).First(&req).Error; err != nil {
		return nil, err
	}

	// Same-bucket drop on the board, nothing to persist.
	if req.Status == target {
		return &req, nil
	}

	updates := map[string]interface{}{"status": target}
	if target == models.RequestStatusCompleted {
		now := time.Now()
		rt := int64(now.Sub(req.CreatedAt).Seconds())
		if rt < 0 {
			rt = 0
		}
		updates["completed_at"] = now
		updates["response_time"] = rt
		req.CompletedAt = &now
		req.ResponseTime = &rt
	} else if req.Status == models.RequestStatusCompleted {
		updates["completed_at"] = nil
		updates["response_time"] = nil
		req.CompletedAt = nil
		req.ResponseTime = nil
	}

	if err := rs.DB.Model(&models.ServiceRequest{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	req.Status = target
	return &req, nil
}

// SoftDelete -> flag the request deleted, keeping the row in storage.
func (rs *RequestService) SoftDelete(id string) error {
	res := rs.DB.Model(&models.ServiceRequest{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Board holds the three kanban buckets, oldest request first in each.
type Board struct {
	New       []models.ServiceRequest `json:"new"`
	Pending   []models.ServiceRequest `json:"pending"`
	Completed []models.ServiceRequest `json:"completed"`
}

// Board -> bucket all non-deleted requests by status.
func (rs *RequestService) Board() (*Board, error) {
	var reqs []models.ServiceRequest
	if err := rs.DB.Where("deleted = ?", false).
		Order("created_at asc").
		Find(&reqs).Error; err != nil {
		return nil, err
	}

	board := &Board{
		New:       []models.ServiceRequest{},
		Pending:   []models.ServiceRequest{},
		Completed: []models.ServiceRequest{},
	}
	for _, r := range reqs {
		switch r.Status {
		case models.RequestStatusNew:
			board.New = append(board.New, r)
		case models.RequestStatusPending:
			board.Pending = append(board.Pending, r)
		case models.RequestStatusCompleted:
			board.Completed = append(board.Completed, r)
		}
	}
	return board, nil
}

// ElapsedSeconds -> for completed requests the persisted response time (or
// completed_at - created_at when the column is missing), otherwise seconds
// since creation.
func ElapsedSeconds(req *models.ServiceRequest, now time.Time) int64 {
	if req.Status == models.RequestStatusCompleted {
		if req.ResponseTime != nil {
			return *req.ResponseTime
		}
		if req.CompletedAt != nil {
			return int64(req.CompletedAt.Sub(req.CreatedAt).Seconds())
		}
	}
	elapsed := int64(now.Sub(req.CreatedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}
