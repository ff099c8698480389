package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists one JSON document per topic in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(topic string) (*Entry, error) {
	var document string
	err := s.db.QueryRow(
		`SELECT document FROM cache_entries WHERE topic = ?`, topic,
	).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(document), &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	return &entry, nil
}

func (s *SQLiteStore) Save(entry *Entry) error {
	document, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO cache_entries (topic, document, generated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(topic) DO UPDATE SET
			document = excluded.document,
			generated_at = excluded.generated_at
	`, entry.Topic, string(document), entry.GeneratedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
