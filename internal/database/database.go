package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed migrations/*.sql
var migrations embed.FS

// InitDB opens the database and migrates the schema to the latest version.
// With an empty primaryUrl the database is a local SQLite file (or ":memory:");
// otherwise it is the remote Turso database at primaryUrl.
func InitDB(dbPath string, primaryUrl string, authToken string) (*sql.DB, func(), error) {
	db, err := open(dbPath, primaryUrl, authToken)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate(db); err != nil {
		db.Close() // Close on error
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database initialized successfully")

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}

func open(dbPath, primaryUrl, authToken string) (*sql.DB, error) {
	if primaryUrl == "" {
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		dsn := "file:" + dbPath + "?_foreign_keys=on"
		if dbPath == ":memory:" {
			dsn = "file::memory:?_foreign_keys=on"
		}
		db, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open local database: %w", err)
		}
		// Every new connection to an in-memory database is a new, empty database.
		if dbPath == ":memory:" {
			db.SetMaxOpenConns(1)
		}
		return db, nil
	}

	log.Info("Initializing Turso database", "url", primaryUrl)
	db, err := sql.Open("libsql", primaryUrl+"?authToken="+authToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", primaryUrl, err)
	}
	// Foreign key support is not enabled by default in SQLite
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		log.Error("Error enabling foreign keys", "error", err)
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}
