package main

import (
	"fmt"

	"github.com/dgallion1/wikinav/internal/config"
	"github.com/dgallion1/wikinav/internal/expansion"
	"github.com/dgallion1/wikinav/internal/pathstore"
	"github.com/dgallion1/wikinav/internal/statestore"
)

// openStore builds the configured state backend. The returned func
// releases it.
func openStore(cfg config.Config) (expansion.Store, func(), error) {
	switch cfg.StateBackend {
	case config.BackendMemory:
		return statestore.NewMemory(), func() {}, nil
	case config.BackendFile:
		return statestore.NewFile(cfg.StateDir), func() {}, nil
	case config.BackendSQLite:
		db, err := statestore.OpenSQLite(cfg.StateDB)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case config.BackendPathstore:
		client := pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		return pathstore.NewStore(client, ""), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
