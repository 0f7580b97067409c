// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/warsh-extract/pkg/types"
)

// QueryOptions holds parameters for verse searches.
type QueryOptions struct {
	// Query is the full-text search string.
	Query string

	// SuraID restricts results to one sura. Zero means all suras.
	SuraID int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.SuraID == 0
}

// VerseResult is a verse together with its sura's names.
type VerseResult struct {
	SuraID int             `json:"sura_id" yaml:"sura_id"`
	Number int             `json:"number" yaml:"number"`
	Text   string          `json:"text" yaml:"text"`
	Raw    json.RawMessage `json:"raw" yaml:"-"`
	NameAr string          `json:"name_ar" yaml:"name_ar"`
	NameEn string          `json:"name_en" yaml:"name_en"`
}

// Search queries verses with optional full-text search and a sura filter.
// Full-text results are ranked by relevance; filter-only results are
// ordered by sura and verse number.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]VerseResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	switch {
	case useFTS:
		qb.WriteString(
			`SELECT v.sura_id, v.number, v.text, v.raw, s.name_ar, s.name_en
			FROM verses_fts
			JOIN verses v ON v.rowid = verses_fts.rowid
			LEFT JOIN suras s ON v.sura_id = s.id
			WHERE verses_fts MATCH ?`)
		args = append(args, opts.Query)
	case opts.Query != "":
		qb.WriteString(
			`SELECT v.sura_id, v.number, v.text, v.raw, s.name_ar, s.name_en
			FROM verses v
			LEFT JOIN suras s ON v.sura_id = s.id
			WHERE instr(v.text, ?) > 0`)
		args = append(args, opts.Query)
	default:
		qb.WriteString(
			`SELECT v.sura_id, v.number, v.text, v.raw, s.name_ar, s.name_en
			FROM verses v
			LEFT JOIN suras s ON v.sura_id = s.id
			WHERE 1=1`)
	}

	if opts.SuraID != 0 {
		qb.WriteString(` AND v.sura_id = ?`)
		args = append(args, opts.SuraID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY verses_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY v.sura_id, v.number`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalogue: %w", err)
	}
	defer rows.Close()

	var results []VerseResult
	for rows.Next() {
		var (
			r      VerseResult
			raw    string
			nameAr sql.NullString
			nameEn sql.NullString
		)
		if err := rows.Scan(&r.SuraID, &r.Number, &r.Text, &raw, &nameAr, &nameEn); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Raw = json.RawMessage(raw)
		r.NameAr = nameAr.String
		r.NameEn = nameEn.String
		results = append(results, r)
	}

	return results, rows.Err()
}

// Suras lists the indexed suras ordered by id.
func (s *Store) Suras(ctx context.Context) ([]types.SuraIndexEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name_ar, name_en, verse_count FROM suras ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing suras: %w", err)
	}
	defer rows.Close()

	var suras []types.SuraIndexEntry
	for rows.Next() {
		var (
			e      types.SuraIndexEntry
			nameAr sql.NullString
			nameEn sql.NullString
		)
		if err := rows.Scan(&e.ID, &nameAr, &nameEn, &e.VerseCount); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.NameAr = nameAr.String
		e.NameEn = nameEn.String
		suras = append(suras, e)
	}
	return suras, rows.Err()
}
