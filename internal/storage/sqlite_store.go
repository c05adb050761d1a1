package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dyike/CortexTrack/config"
)

var (
	sqliteStoreOnce sync.Once
	sqliteStoreInst *Store
	sqliteStoreErr  error
	// ErrDataDirNotConfigured indicates config.DataDir is empty.
	ErrDataDirNotConfigured = errors.New("data_dir is not configured")
)

// GetSQLiteStore returns a shared store handle for reuse across commands.
func GetSQLiteStore() (*Store, error) {
	sqliteStoreOnce.Do(func() {
		cfg := config.Get()
		dataDir := strings.TrimSpace(cfg.DataDir)
		if dataDir == "" {
			sqliteStoreErr = ErrDataDirNotConfigured
			return
		}
		dbPath := filepath.Join(dataDir, "progress.db")
		sqliteStoreInst, sqliteStoreErr = Open(dbPath)
	})
	return sqliteStoreInst, sqliteStoreErr
}
