// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/warsh-extract/internal/fsutil"
	"github.com/pdiddy/warsh-extract/pkg/types"
)

// Writer persists sura records into a directory, creating it on first use.
type Writer struct {
	dir     string
	created bool
}

// NewWriter returns a Writer for dir. The directory is not touched until
// the first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write stores s as <dir>/<s.Key>.json, replacing any existing file, and
// returns the path written.
func (w *Writer) Write(s types.Sura) (string, error) {
	verses, err := unescapeStrings(s.Verses)
	if err != nil {
		return "", fmt.Errorf("sura %s verses: %w", s.Key, err)
	}
	s.Verses = verses
	data, err := Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshaling sura %s: %w", s.Key, err)
	}
	path := filepath.Join(w.dir, s.Key+".json")
	if err := w.writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) writeFile(path string, data []byte) error {
	if !w.created {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", w.dir, err)
		}
		w.created = true
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// Marshal renders v as two-space indented JSON with non-ASCII text and
// HTML characters left as-is.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteIndex stores the table of contents at path. It is not tied to a
// Writer so the index can live outside the per-sura directory.
func WriteIndex(path string, entries []types.SuraIndexEntry) error {
	if entries == nil {
		entries = []types.SuraIndexEntry{}
	}
	data, err := Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating index directory %s: %w", dir, err)
		}
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// unescapeStrings rewrites every string literal in raw that carries a
// backslash escape in its shortest form, so "\u0627" is stored as "ا".
// Structure, key order and numbers are left untouched.
func unescapeStrings(raw json.RawMessage) (json.RawMessage, error) {
	if bytes.IndexByte(raw, '\\') < 0 {
		return raw, nil
	}
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '"' {
			out = append(out, raw[i])
			continue
		}
		end := i + 1
		escaped := false
		for ; end < len(raw) && raw[end] != '"'; end++ {
			if raw[end] == '\\' {
				escaped = true
				end++
			}
		}
		if end >= len(raw) {
			return nil, fmt.Errorf("unterminated string at offset %d", i)
		}
		lit := raw[i : end+1]
		if escaped {
			var err error
			if lit, err = reencodeString(lit); err != nil {
				return nil, err
			}
		}
		out = append(out, lit...)
		i = end
	}
	return out, nil
}

func reencodeString(lit []byte) ([]byte, error) {
	var str string
	if err := json.Unmarshal(lit, &str); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(str); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
