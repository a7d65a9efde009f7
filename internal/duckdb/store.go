// Package duckdb provides a DuckDB-backed history of assessment results.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// schema holds the statements applied to every opened history database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS assessments (
		id VARCHAR PRIMARY KEY,
		patient_id VARCHAR,
		drug VARCHAR,
		gene VARCHAR,
		diplotype VARCHAR,
		phenotype VARCHAR,
		risk_label VARCHAR,
		severity VARCHAR,
		recommendation VARCHAR,
		created_at TIMESTAMP,
		result_json VARCHAR
	)`,
}

// Store is the assessment history. An empty path keeps it in memory.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the history database at path, creating the file, its parent
// directory and the schema as needed.
func Open(path string) (*Store, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open history %q: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply history schema: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	return nil
}

// Path returns the database file, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}
