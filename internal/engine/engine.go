// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine pulls the tajweed rule script out of the host document.
// Script elements are found with the x/net/html tokenizer; the first one
// whose body mentions the requested function wins, and the captured code
// is not checked for syntax.
package engine

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/warsh-extract/internal/fsutil"
)

// Header is the first line of every extracted engine file.
const Header = "// Extracted Tajweed Logic\n"

// FindBlock returns the body of the first <script> block declaring
// function. The boolean is false when no such block exists. A script
// left open at the end of the document does not count.
func FindBlock(doc, function string) (string, bool) {
	decl := "function " + function
	z := html.NewTokenizer(strings.NewReader(doc))

	inScript := false
	var body string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "script" {
				inScript, body = true, ""
			}
		case html.TextToken:
			if inScript {
				// Raw is only valid until the next call to Next.
				body = string(z.Raw())
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "script" && inScript {
				if strings.Contains(body, decl) {
					return body, true
				}
				inScript = false
			}
		}
	}
}

// WriteEngine writes Header followed by code to path, replacing any
// existing file.
func WriteEngine(path, code string) error {
	if err := fsutil.WriteFileAtomic(path, []byte(Header+code), 0o644); err != nil {
		return fmt.Errorf("writing engine %s: %w", path, err)
	}
	return nil
}
