// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes the split sura files into a SQLite database so
// verses can be searched offline.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/warsh-extract/pkg/types"
)

const dbFile = "warsh.db"

// Store manages the catalogue database.
type Store struct {
	db         *sql.DB
	dataDir    string
	indexDir   string
	maxResults int
	// fts is false when the sqlite3 driver was built without FTS5; search
	// then falls back to substring matching.
	fts bool
}

// NewStore opens or creates the catalogue at indexDir/warsh.db and makes
// sure the schema exists.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}

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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS suras (
			id INTEGER PRIMARY KEY,
			key TEXT NOT NULL,
			name_ar TEXT,
			name_en TEXT,
			verse_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS verses (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			sura_id INTEGER NOT NULL REFERENCES suras(id),
			number INTEGER NOT NULL,
			raw TEXT NOT NULL,
			text TEXT NOT NULL,
			UNIQUE(sura_id, number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verses_sura_id ON verses(sura_id)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			sura_key TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='verses_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	if _, err := s.db.Exec(
		`CREATE VIRTUAL TABLE verses_fts USING fts5(text, content=verses, content_rowid=rowid)`,
	); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER verses_ai AFTER INSERT ON verses BEGIN
			INSERT INTO verses_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
		`CREATE TRIGGER verses_ad AFTER DELETE ON verses BEGIN
			INSERT INTO verses_fts(verses_fts, rowid, text) VALUES('delete', old.rowid, old.text);
		END`,
		`CREATE TRIGGER verses_au AFTER UPDATE ON verses BEGIN
			INSERT INTO verses_fts(verses_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			INSERT INTO verses_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// IngestSummary holds counts from a catalogue indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of sura files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads every <key>.json in the data directory and loads it into
// the database. Files whose modification time matches the last indexing
// run are skipped; changed files have their verses replaced.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading data directory %s: %w", s.dataDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		key := strings.TrimSuffix(name, ".json")

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE sura_key = ?`, key,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", key)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		sura, err := readSura(filepath.Join(s.dataDir, name), key)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}

		n, err := s.ingestSura(ctx, sura, modTime)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d verses)\n", key, n)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d verses)\n", key, n)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestSura(ctx context.Context, sura types.Sura, modTime string) (int, error) {
	var verses []json.RawMessage
	if err := json.Unmarshal(sura.Verses, &verses); err != nil {
		return 0, fmt.Errorf("verses of sura %s: %w", sura.Key, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM verses WHERE sura_id = ?`, sura.ID); err != nil {
		return 0, fmt.Errorf("deleting old verses: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO suras (id, key, name_ar, name_en, verse_count)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			key=excluded.key, name_ar=excluded.name_ar,
			name_en=excluded.name_en, verse_count=excluded.verse_count`,
		sura.ID, sura.Key, sura.NameAr, sura.NameEn, len(verses),
	)
	if err != nil {
		return 0, fmt.Errorf("upserting sura: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO verses (sura_id, number, raw, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range verses {
		if _, err := stmt.ExecContext(ctx, sura.ID, i+1, string(v), VerseText(v)); err != nil {
			return 0, fmt.Errorf("inserting verse %d: %w", i+1, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (sura_key, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(sura_key) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		sura.Key, modTime,
	)
	if err != nil {
		return 0, fmt.Errorf("updating indexing status: %w", err)
	}

	return len(verses), tx.Commit()
}

// readSura loads one split file. The key comes from the file name so that
// it round-trips with the partitioner's naming.
func readSura(path, key string) (types.Sura, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Sura{}, err
	}
	var sura types.Sura
	if err := json.Unmarshal(data, &sura); err != nil {
		return types.Sura{}, fmt.Errorf("parse error: %w", err)
	}
	if _, err := strconv.Atoi(key); err != nil {
		return types.Sura{}, fmt.Errorf("file name %q is not a sura key", key)
	}
	sura.Key = key
	return sura, nil
}

// VerseText returns the searchable text of a verse: the verse itself when
// it is a JSON string, otherwise its string leaves joined by spaces.
func VerseText(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	var parts []string
	collectStrings(v, &parts)
	return strings.Join(parts, " ")
}

func collectStrings(v any, parts *[]string) {
	switch t := v.(type) {
	case string:
		*parts = append(*parts, t)
	case []any:
		for _, e := range t {
			collectStrings(e, parts)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectStrings(t[k], parts)
		}
	}
}
