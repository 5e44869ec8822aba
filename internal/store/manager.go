package store

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Manager provides shared database access to prevent locking conflicts
// when several ChronoTree replicas share one on-disk bbolt file.
type Manager struct {
	mu     sync.RWMutex
	db     *DB
	dbPath string
	refs   int
}

var globalManager *Manager
var managerMu sync.Mutex

// GetSharedDB returns a shared database connection for the given
// chronotree data directory. Multiple calls with the same dataDir return
// the same connection. The connection is reference counted and closed
// when all references are released.
func GetSharedDB(dataDir string) (*SharedDB, error) {
	managerMu.Lock()
	defer managerMu.Unlock()

	dbPath := filepath.Join(dataDir, "objects.db")

	if globalManager == nil || globalManager.dbPath != dbPath {
		if globalManager != nil {
			globalManager.close()
		}

		db, err := Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}

		globalManager = &Manager{
			db:     db,
			dbPath: dbPath,
			refs:   0,
		}
	}

	globalManager.refs++

	return &SharedDB{
		manager: globalManager,
		DB:      globalManager.db,
	}, nil
}

// SharedDB wraps a database connection with reference counting.
type SharedDB struct {
	manager *Manager
	*DB
}

// Close decrements the reference count and closes the underlying
// database when no more references exist.
func (sdb *SharedDB) Close() error {
	if sdb.manager == nil {
		return nil
	}

	managerMu.Lock()
	defer managerMu.Unlock()

	sdb.manager.refs--

	if sdb.manager.refs <= 0 {
		err := sdb.manager.close()
		globalManager = nil
		return err
	}

	return nil
}

func (m *Manager) close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
