package config

import (
	"fmt"
	"strings"

	"github.com/solarflux/fixengine/lib/fix/store"
	"github.com/solarflux/fixengine/lib/fix/store/badgerstore"
	"github.com/solarflux/fixengine/lib/fix/store/sqlstore"
)

// OpenStore constructs the fix/store.Store backend StoreConfig selects,
// per SPEC_FULL.md §6's store.backend/store.dsn/store.path keys. A DSN
// beginning with "postgres://" opens sqlstore against Postgres; any
// other DSN is treated as a sqlite file path, matching sqlstore's two
// constructors.
func (c StoreConfig) OpenStore() (store.Store, error) {
	switch c.Backend {
	case "badger":
		st, err := badgerstore.Open(c.Path)
		if err != nil {
			return nil, fmt.Errorf("config: open badger store at %s: %w", c.Path, err)
		}
		return st, nil

	case "sql":
		if strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://") {
			st, err := sqlstore.OpenPostgres(c.DSN)
			if err != nil {
				return nil, fmt.Errorf("config: open postgres store: %w", err)
			}
			return st, nil
		}
		st, err := sqlstore.OpenSQLite(c.DSN)
		if err != nil {
			return nil, fmt.Errorf("config: open sqlite store at %s: %w", c.DSN, err)
		}
		return st, nil

	default:
		return nil, fmt.Errorf("config: unknown store backend %q", c.Backend)
	}
}
