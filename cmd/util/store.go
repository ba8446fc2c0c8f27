package util

import (
	"fmt"

	"github.com/backit-onchain/oracle/pkg/config/types"
	"github.com/backit-onchain/oracle/pkg/store"
	"github.com/backit-onchain/oracle/pkg/store/inmemory"
	"github.com/backit-onchain/oracle/pkg/store/postgres"
	"github.com/backit-onchain/oracle/pkg/store/sqlite"
)

// NewSettlementStore opens the settlement store selected by the config.
func NewSettlementStore(cfg types.Store) (store.SettlementStore, error) {
	switch cfg.Type {
	case types.StoreTypeInMemory, "":
		return inmemory.NewInMemoryDatastore(), nil
	case types.StoreTypeSQLite:
		return sqlite.NewSQLiteDatastore(cfg.DSN)
	case types.StoreTypePostgres:
		return postgres.NewPostgresDatastore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}
