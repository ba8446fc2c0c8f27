package sqlite

import (
	"database/sql"

	"github.com/golang-migrate/migrate/v4/database"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "modernc.org/sqlite"

	"github.com/backit-onchain/oracle/pkg/store/shared"
)

type SQLiteDatastore struct {
	*shared.GenericSQLDatastore
}

// NewSQLiteDatastore opens (creating if needed) the database file and applies migrations.
func NewSQLiteDatastore(filename string) (*SQLiteDatastore, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; serialise through one connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("pragma foreign_keys = on; pragma busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, err
	}

	datastore, err := shared.NewGenericSQLDatastore(db, "sqlite", func(db *sql.DB) (database.Driver, error) {
		return migratesqlite.WithInstance(db, &migratesqlite.Config{})
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := datastore.MigrateUp(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteDatastore{GenericSQLDatastore: datastore}, nil
}
