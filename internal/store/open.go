package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmcdole/classboard/internal/domain"
)

// Cache drivers accepted by Open
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the cache for the given driver. scope separates caches of
// different accounts that share one directory.
func Open(driver, dir, scope string, logger *slog.Logger) (domain.Cache, error) {
	switch driver {
	case DriverBolt, "":
		return NewBoltCache(dir, scope)
	case DriverMemory:
		return NewBoltCache("", "")
	case DriverSQLite:
		if dir == "" {
			return NewSQLiteCache(":memory:", logger)
		}
		sub := dir
		if scope != "" {
			sub = filepath.Join(dir, hashScope(scope))
		}
		if err := os.MkdirAll(sub, 0755); err != nil {
			return nil, err
		}
		return NewSQLiteCache(filepath.Join(sub, "classboard.sqlite"), logger)
	}
	return nil, fmt.Errorf("unknown cache driver %q", driver)
}
