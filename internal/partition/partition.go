// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package partition splits a decoded Dataset into one record per sura and
// persists each record as <key>.json. Files are named with the key string
// exactly as it appears in the source, not the parsed integer, so "007"
// produces 007.json.
package partition

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pdiddy/warsh-extract/pkg/types"
)

// InvalidKeyError reports a text key that does not parse as an integer.
type InvalidKeyError struct {
	Key string
	Err error
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid sura key %q: %v", e.Key, e.Err)
}

func (e *InvalidKeyError) Unwrap() error {
	return e.Err
}

// Partition builds the output record for every text entry, in source order.
// All keys are validated before any record is built.
func Partition(ds *types.Dataset) ([]types.Sura, error) {
	if err := ValidateKeys(ds); err != nil {
		return nil, err
	}
	suras := make([]types.Sura, 0, len(ds.Text))
	for _, entry := range ds.Text {
		s, err := Record(ds, entry)
		if err != nil {
			return nil, err
		}
		suras = append(suras, s)
	}
	return suras, nil
}

// ValidateKeys checks that every text key parses as an integer.
func ValidateKeys(ds *types.Dataset) error {
	for _, entry := range ds.Text {
		if _, err := strconv.Atoi(entry.Key); err != nil {
			return &InvalidKeyError{Key: entry.Key, Err: err}
		}
	}
	return nil
}

// Record merges one text entry with its metadata. Missing metadata yields
// empty names.
func Record(ds *types.Dataset, entry types.SuraText) (types.Sura, error) {
	id, err := strconv.Atoi(entry.Key)
	if err != nil {
		return types.Sura{}, &InvalidKeyError{Key: entry.Key, Err: err}
	}
	meta := ds.Meta[entry.Key]
	return types.Sura{
		Key:    entry.Key,
		ID:     id,
		NameAr: meta.NameAr,
		NameEn: meta.NameEn,
		Verses: entry.Verses,
	}, nil
}

// Split writes every sura of ds through out, one file at a time, and
// returns the index entries in source order. Nothing is written if any key
// is invalid.
func Split(ds *types.Dataset, out *Writer, w io.Writer) ([]types.SuraIndexEntry, error) {
	if err := ValidateKeys(ds); err != nil {
		return nil, err
	}

	index := make([]types.SuraIndexEntry, 0, len(ds.Text))
	for _, entry := range ds.Text {
		s, err := Record(ds, entry)
		if err != nil {
			return nil, err
		}
		path, err := out.Write(s)
		if err != nil {
			return nil, err
		}
		n := VerseCount(s.Verses)
		fmt.Fprintf(w, "wrote %s (%d verses)\n", path, n)
		index = append(index, types.SuraIndexEntry{
			ID:         s.ID,
			NameAr:     s.NameAr,
			NameEn:     s.NameEn,
			VerseCount: n,
		})
	}
	return index, nil
}

// VerseCount returns the number of elements in a verse array, or 0 when
// verses is not an array.
func VerseCount(verses json.RawMessage) int {
	var items []json.RawMessage
	if err := json.Unmarshal(verses, &items); err != nil {
		return 0
	}
	return len(items)
}
