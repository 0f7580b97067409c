// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package literal locates and delimits a brace-balanced object literal
// embedded in surrounding markup, without parsing the markup itself.
package literal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMarkerNotFound means the marker text does not occur in the document.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrUnbalanced means no complete brace-balanced literal follows the marker.
	ErrUnbalanced = errors.New("unbalanced literal")
)

// Mode selects how the scanner treats braces inside strings and comments.
type Mode int

const (
	// ModeStringAware skips quoted strings ("", '', ``) and JavaScript
	// comments, so only structural braces affect the depth count.
	ModeStringAware Mode = iota

	// ModeNaive counts every '{' and '}' in the text. The literal must not
	// contain brace characters inside string payloads or comments.
	ModeNaive
)

// Locate returns the offset of the first '{' at or after the end of marker.
func Locate(doc, marker string) (int, error) {
	start := strings.Index(doc, marker)
	if start < 0 {
		return -1, fmt.Errorf("%w: %q", ErrMarkerNotFound, marker)
	}
	rel := strings.IndexByte(doc[start+len(marker):], '{')
	if rel < 0 {
		return -1, fmt.Errorf("%w: no '{' after %q", ErrUnbalanced, marker)
	}
	return start + len(marker) + rel, nil
}

// ExtractBalanced returns doc[open:end], where doc[open] is '{' and end is
// one past the brace that brings the depth back to zero.
func ExtractBalanced(doc string, open int, mode Mode) (string, error) {
	if open < 0 || open >= len(doc) || doc[open] != '{' {
		return "", fmt.Errorf("%w: offset %d is not an opening brace", ErrUnbalanced, open)
	}

	depth := 0
	for i := open; i < len(doc); i++ {
		c := doc[i]
		if mode == ModeStringAware {
			if skip := skipNonStructural(doc, i); skip > i {
				i = skip - 1
				continue
			}
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return doc[open : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: document ended at depth %d", ErrUnbalanced, depth)
}

// Extract combines Locate and ExtractBalanced.
func Extract(doc, marker string, mode Mode) (string, error) {
	open, err := Locate(doc, marker)
	if err != nil {
		return "", err
	}
	return ExtractBalanced(doc, open, mode)
}

// skipNonStructural returns the offset just past the string literal or
// comment starting at i, or i when none starts there. An unterminated
// string or comment runs to the end of doc.
func skipNonStructural(doc string, i int) int {
	switch c := doc[i]; c {
	case '"', '\'', '`':
		for j := i + 1; j < len(doc); j++ {
			switch doc[j] {
			case '\\':
				j++
			case c:
				return j + 1
			}
		}
		return len(doc)
	case '/':
		if i+1 >= len(doc) {
			return i
		}
		switch doc[i+1] {
		case '/':
			if nl := strings.IndexByte(doc[i+2:], '\n'); nl >= 0 {
				return i + 2 + nl + 1
			}
			return len(doc)
		case '*':
			if end := strings.Index(doc[i+2:], "*/"); end >= 0 {
				return i + 2 + end + 2
			}
			return len(doc)
		}
	}
	return i
}
