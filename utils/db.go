package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	dbMu sync.RWMutex
	db   *gorm.DB
)

// InitDB stores the shared database handle. Later calls overwrite it, which
// only tests do.
func InitDB(database *gorm.DB) {
	dbMu.Lock()
	defer dbMu.Unlock()
	db = database
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}
