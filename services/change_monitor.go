package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/board"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
)

// ChangeMonitor polls the db_changes journal that the database triggers fill
// in and pushes every change out through the board hub. The authoritative row
// is always re-fetched, the journal entry is never trusted as a payload.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "waiter_requests":
			cm.processRequestChange(change)
		case "loyalty_points":
			cm.processLoyaltyChange(change)
		case "menu_items":
			cm.processMenuChange(change)
		case "cafe_tables":
			cm.processTableChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		log.Printf("Processed %d changes", len(changes))
	}
}

func (cm *ChangeMonitor) processRequestChange(change models.DBChange) {
	// Hard deletes never happen through the normal flow; soft deletes arrive
	// as UPDATEs with deleted=true.
	var req models.ServiceRequest
	if err := cm.DB.Where("id = ?", change.RecordID).First(&req).Error; err != nil {
		log.Printf("Error fetching request %s: %v", change.RecordID, err)
		return
	}

	if req.Deleted {
		board.BroadcastRequestDelete(req.ID)
		return
	}
	board.BroadcastRequestUpdate(req)
}

func (cm *ChangeMonitor) processLoyaltyChange(change models.DBChange) {
	var acct models.LoyaltyAccount
	if err := cm.DB.Where("user_id = ?", change.RecordID).First(&acct).Error; err != nil {
		log.Printf("Error fetching loyalty account %s: %v", change.RecordID, err)
		return
	}
	board.BroadcastLoyaltyUpdate(acct)
}

func (cm *ChangeMonitor) processMenuChange(change models.DBChange) {
	var item models.MenuItem
	if err := cm.DB.Where("id = ?", change.RecordID).First(&item).Error; err != nil {
		log.Printf("Error fetching menu item %s: %v", change.RecordID, err)
		return
	}
	board.BroadcastMenuUpdate(item)
}

func (cm *ChangeMonitor) processTableChange(change models.DBChange) {
	var table models.CafeTable
	if err := cm.DB.Where("id = ?", change.RecordID).First(&table).Error; err != nil {
		log.Printf("Error fetching table %s: %v", change.RecordID, err)
		return
	}
	board.BroadcastTableUpdate(table)
}
