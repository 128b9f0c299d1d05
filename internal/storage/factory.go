package storage

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitflow/internal/constants"
)

// New returns the provider for kind. An empty kind is inferred from path:
// PostgreSQL URLs select postgres, everything else sqlite.
func New(kind, path string) (Provider, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = constants.StoreSQLite
		if IsPostgresConnString(path) {
			kind = constants.StorePostgres
		}
	}

	switch kind {
	case constants.StoreSQLite:
		return NewSQLiteStore(path), nil
	case constants.StoreJSON:
		return NewJSONStore(path), nil
	case constants.StorePostgres:
		return NewPostgresStore(path), nil
	case constants.StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q (expected sqlite, json, postgres or memory)", kind)
	}
}
