// Package cache persists the last good data snapshot in a local sqlite
// file, so the dashboard has stale-but-available data before the first
// refresh of a new process completes.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrEmpty is returned by Load when nothing has been cached yet.
var ErrEmpty = errors.New("snapshot cache is empty")

// Cache is a single-row store: the latest snapshot, wholesale, matching
// the aggregator's no-incremental-patching rule.
type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migrate snapshot cache: %w", err)
	}
	return nil
}

// Save replaces the cached snapshot.
func (c *Cache) Save(data []byte, fetchedAt time.Time) error {
	_, err := c.db.Exec(
		`INSERT INTO snapshots (id, data, fetched_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at`,
		string(data), fetchedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Load returns the cached snapshot and when it was fetched.
func (c *Cache) Load() ([]byte, time.Time, error) {
	var data, stamp string
	err := c.db.QueryRow(`SELECT data, fetched_at FROM snapshots WHERE id = 1`).Scan(&data, &stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrEmpty
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	fetchedAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse fetched_at: %w", err)
	}
	return []byte(data), fetchedAt, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
