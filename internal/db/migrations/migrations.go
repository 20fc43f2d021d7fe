// Package migrations embeds the goose SQL migrations and applies them at startup.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedded embed.FS

// QuietMode suppresses goose's per-migration output (set for clean CLI runs).
var QuietMode bool

// Run applies all pending migrations to the database.
func Run(db *sql.DB) error {
	goose.SetBaseFS(embedded)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if QuietMode {
		goose.SetLogger(goose.NopLogger())
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
