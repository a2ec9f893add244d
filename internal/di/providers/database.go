package providers

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/bookclub/bookclub-server/internal/config"
	"github.com/bookclub/bookclub-server/internal/logger"
	"github.com/bookclub/bookclub-server/internal/store"
	"github.com/bookclub/bookclub-server/internal/store/sqlite"
)

// persistentStore is what both storage drivers implement.
type persistentStore interface {
	store.KV
	store.Scanner
	io.Closer
}

// StoreHandle wraps the persistent store with shutdown capability.
type StoreHandle struct {
	persistentStore
	Driver string
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the persistent store selected by the storage driver.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		db   persistentStore
		path string
		err  error
	)
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		path = filepath.Join(cfg.Storage.DataPath, "bookclub.db")
		db, err = sqlite.Open(path, log.Logger)
	case config.DriverBadger:
		path = filepath.Join(cfg.Storage.DataPath, "db")
		db, err = store.OpenBadger(path, log.Logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", cfg.Storage.Driver, "path", path)

	return &StoreHandle{persistentStore: db, Driver: cfg.Storage.Driver}, nil
}

// SessionStoreHandle wraps the in-memory session store.
type SessionStoreHandle struct {
	*store.Memory
}

// Shutdown implements do.Shutdownable.
func (h *SessionStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideSessionStore provides the idle-expiring session store.
func ProvideSessionStore(i do.Injector) (*SessionStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &SessionStoreHandle{Memory: store.NewMemory(cfg.Session.TTL)}, nil
}
