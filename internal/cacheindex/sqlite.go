// Package cacheindex maintains a SQLite manifest of files the render
// pipeline has downloaded. The manifest is advisory metadata for the
// cache subcommands; the filesystem itself stays the only freshness
// signal for the cache.
package cacheindex

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection holding the download manifest.
type DB struct {
	db *sql.DB
}

// Entry describes one downloaded cache file.
type Entry struct {
	Path       string    `json:"path"`
	IntraHash  string    `json:"intra_hash"`
	User       string    `json:"user"`
	SourceFile string    `json:"source_file"`
	Kind       string    `json:"kind"` // document or preview
	Size       int64     `json:"size"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Stats summarizes the manifest.
type Stats struct {
	Documents int   `json:"documents"`
	Previews  int   `json:"previews"`
	TotalSize int64 `json:"total_size"`
}

// Open opens or creates the manifest database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS downloads (
			path TEXT PRIMARY KEY,
			intra_hash TEXT NOT NULL,
			user TEXT NOT NULL,
			source_file TEXT NOT NULL,
			kind TEXT NOT NULL,
			size INTEGER NOT NULL,
			fetched_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_downloads_hash ON downloads(intra_hash);
	`
	_, err := db.Exec(schema)
	return err
}

// Record upserts one manifest entry, keyed by target path.
func (d *DB) Record(e Entry) error {
	_, err := d.db.Exec(`
		INSERT INTO downloads (path, intra_hash, user, source_file, kind, size, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			intra_hash = excluded.intra_hash,
			user = excluded.user,
			source_file = excluded.source_file,
			kind = excluded.kind,
			size = excluded.size,
			fetched_at = excluded.fetched_at`,
		e.Path, e.IntraHash, e.User, e.SourceFile, e.Kind, e.Size,
		e.FetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording download %s: %w", e.Path, err)
	}
	return nil
}

// List returns all manifest entries ordered by path.
func (d *DB) List() ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT path, intra_hash, user, source_file, kind, size, fetched_at
		FROM downloads ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing downloads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fetched string
		if err := rows.Scan(&e.Path, &e.IntraHash, &e.User, &e.SourceFile, &e.Kind, &e.Size, &fetched); err != nil {
			return nil, fmt.Errorf("scanning download row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, fetched); err == nil {
			e.FetchedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ByHash returns the manifest entries for one post's intra-hash.
func (d *DB) ByHash(intraHash string) ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT path, intra_hash, user, source_file, kind, size, fetched_at
		FROM downloads WHERE intra_hash = ? ORDER BY path`, intraHash)
	if err != nil {
		return nil, fmt.Errorf("querying downloads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fetched string
		if err := rows.Scan(&e.Path, &e.IntraHash, &e.User, &e.SourceFile, &e.Kind, &e.Size, &fetched); err != nil {
			return nil, fmt.Errorf("scanning download row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, fetched); err == nil {
			e.FetchedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetStats summarizes the manifest contents.
func (d *DB) GetStats() (Stats, error) {
	var s Stats
	err := d.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN kind = 'document' THEN 1 END),
			COUNT(CASE WHEN kind = 'preview' THEN 1 END),
			COALESCE(SUM(size), 0)
		FROM downloads`).Scan(&s.Documents, &s.Previews, &s.TotalSize)
	if err != nil {
		return Stats{}, fmt.Errorf("computing stats: %w", err)
	}
	return s, nil
}
