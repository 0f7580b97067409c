// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader decodes the embedded data literal into a Dataset. Strict
// JSON is tried first; if that fails, bare object keys are quoted and the
// decode is retried once. No other malformation is repaired.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/warsh-extract/pkg/types"
)

// DecodeError reports that both the strict and the repaired decode failed.
type DecodeError struct {
	// Strict is the failure of the first, unmodified attempt.
	Strict error
	// Repaired is the failure after quoting bare keys.
	Repaired error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding data literal: %v", e.Repaired)
}

func (e *DecodeError) Unwrap() error {
	return e.Repaired
}

// Result is a decoded dataset plus whether key repair was needed.
type Result struct {
	Dataset  *types.Dataset
	Repaired bool
}

// Decode parses candidate as the WARSH_DATA object.
func Decode(candidate string) (Result, error) {
	ds, strictErr := decodeDataset(candidate)
	if strictErr == nil {
		return Result{Dataset: ds}, nil
	}

	ds, err := decodeDataset(RepairKeys(candidate))
	if err != nil {
		return Result{}, &DecodeError{Strict: strictErr, Repaired: err}
	}
	return Result{Dataset: ds, Repaired: true}, nil
}

// decodeDataset reads the top-level object token by token so that the
// order of the text section's keys survives decoding.
func decodeDataset(s string) (*types.Dataset, error) {
	dec := json.NewDecoder(strings.NewReader(s))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	ds := &types.Dataset{Meta: map[string]types.SuraMeta{}}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		switch key {
		case "meta":
			meta := map[string]types.SuraMeta{}
			if err := dec.Decode(&meta); err != nil {
				return nil, fmt.Errorf("meta section: %w", err)
			}
			ds.Meta = meta
		case "text":
			text, err := decodeText(dec)
			if err != nil {
				return nil, fmt.Errorf("text section: %w", err)
			}
			ds.Text = text
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level object")
		}
		return nil, err
	}
	return ds, nil
}

// decodeText reads the text object. A repeated key keeps its first
// position and takes the last value.
func decodeText(dec *json.Decoder) ([]types.SuraText, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var text []types.SuraText
	pos := map[string]int{}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var verses json.RawMessage
		if err := dec.Decode(&verses); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		if i, ok := pos[key]; ok {
			text[i].Verses = verses
			continue
		}
		pos[key] = len(text)
		text = append(text, types.SuraText{Key: key, Verses: verses})
	}
	return text, expectDelim(dec, '}')
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
