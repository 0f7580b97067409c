// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RepairKeys wraps every bare key in double quotes. A bare key is a maximal
// run of word characters (letters, digits, underscore) outside any string
// literal that is immediately followed by ':'. Text that already has quoted
// keys comes back unchanged.
func RepairKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	for i := 0; i < len(s); {
		c := s[i]
		if c == '"' || c == '\'' {
			end := stringEnd(s, i)
			b.WriteString(s[i:end])
			i = end
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if !isWord(r) {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}

		end := i + size
		for end < len(s) {
			r, size := utf8.DecodeRuneInString(s[end:])
			if !isWord(r) {
				break
			}
			end += size
		}
		if end < len(s) && s[end] == ':' {
			b.WriteByte('"')
			b.WriteString(s[i:end])
			b.WriteByte('"')
		} else {
			b.WriteString(s[i:end])
		}
		i = end
	}
	return b.String()
}

// stringEnd returns the offset just past the quoted string starting at i.
func stringEnd(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(s)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
