package sqliteutil

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// OpenDB opens a sqlite database at the given path (or a remote libsql
// database when the path carries a libsql:// scheme) and ensures the
// given schema exists.
func OpenDB(schema, path string) (*sql.DB, error) {
	var database *sql.DB
	var err error

	if strings.HasPrefix(path, "libsql://") || strings.HasPrefix(path, "ws://") || strings.HasPrefix(path, "wss://") {
		database, err = sql.Open("libsql", path)
	} else {
		database, err = sql.Open("sqlite", path)
	}
	if err != nil {
		return nil, err
	}

	_, err = database.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		database.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return database, nil
}
