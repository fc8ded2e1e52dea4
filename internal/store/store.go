// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists conversion results in a local SQLite database so
// repeated parses of the same PDF skip the converter entirely. Documents are
// keyed by the SHA-256 digest of the PDF bytes, so a moved or renamed file
// still hits the cache while an edited one does not.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/qd-maker/insurance-rag/pkg/types"
)

const dbFile = "conversions.db"

// ErrNotFound indicates no cached conversion exists for the requested ID.
var ErrNotFound = errors.New("document not in cache")

// Store manages the conversion cache SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at cacheDir/conversions.db and
// creates the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CacheDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		source_path TEXT NOT NULL,
		markdown TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		backend TEXT NOT NULL,
		converted_at TEXT NOT NULL
	)`)
	return err
}

// Get returns the cached document and its metadata for the given ID, or
// ErrNotFound when the PDF has not been converted before.
func (s *Store) Get(id string) (types.Document, types.DocumentMeta, error) {
	row := s.db.QueryRow(
		`SELECT source_path, markdown, page_count, backend, converted_at
		 FROM documents WHERE id = ?`, id)

	var doc types.Document
	meta := types.DocumentMeta{ID: id}
	var backend, convertedAt string
	err := row.Scan(&meta.SourcePath, &doc.Markdown, &doc.PageCount, &backend, &convertedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Document{}, types.DocumentMeta{}, ErrNotFound
	}
	if err != nil {
		return types.Document{}, types.DocumentMeta{}, fmt.Errorf("reading cache row: %w", err)
	}

	meta.PageCount = doc.PageCount
	meta.Backend = types.ConversionBackend(backend)
	if t, parseErr := time.Parse(time.RFC3339, convertedAt); parseErr == nil {
		meta.ConvertedAt = t
	}
	return doc, meta, nil
}

// Put inserts or replaces the cached conversion for meta.ID.
func (s *Store) Put(doc types.Document, meta types.DocumentMeta) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO documents
		 (id, source_path, markdown, page_count, backend, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.SourcePath, doc.Markdown, doc.PageCount,
		string(meta.Backend), meta.ConvertedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing cache row: %w", err)
	}
	return nil
}

// List returns metadata for every cached document, newest first.
func (s *Store) List() ([]types.DocumentMeta, error) {
	rows, err := s.db.Query(
		`SELECT id, source_path, page_count, backend, converted_at
		 FROM documents ORDER BY converted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}
	defer rows.Close()

	var metas []types.DocumentMeta
	for rows.Next() {
		var m types.DocumentMeta
		var backend, convertedAt string
		if err := rows.Scan(&m.ID, &m.SourcePath, &m.PageCount, &backend, &convertedAt); err != nil {
			return nil, fmt.Errorf("scanning cache row: %w", err)
		}
		m.Backend = types.ConversionBackend(backend)
		if t, parseErr := time.Parse(time.RFC3339, convertedAt); parseErr == nil {
			m.ConvertedAt = t
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Clear deletes every cached conversion and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM documents`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
