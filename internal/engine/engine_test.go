// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBlock(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		want   string
		wantOK bool
	}{
		{
			name:   "single block",
			doc:    "<script>\nfunction detect(t) {\n  return [];\n}\n</script>",
			want:   "\nfunction detect(t) {\n  return [];\n}\n",
			wantOK: true,
		},
		{
			name:   "attributes on the script tag",
			doc:    `<script type="text/javascript" defer>function detect(){}</script>`,
			want:   "function detect(){}",
			wantOK: true,
		},
		{
			name: "first matching block wins",
			doc: "<script>const WARSH_DATA = {};</script>" +
				"<script>function detect(){ return 1; }</script>" +
				"<script>function detect(){ return 2; }</script>",
			want:   "function detect(){ return 1; }",
			wantOK: true,
		},
		{
			name:   "no block declares the function",
			doc:    "<script>function render(){}</script><p>function detect</p>",
			wantOK: false,
		},
		{
			name:   "upper-case tag name",
			doc:    "<SCRIPT>function detect(){}</SCRIPT>",
			want:   "function detect(){}",
			wantOK: true,
		},
		{
			name:   "body is returned raw",
			doc:    "<script>function detect(a){ return a &amp;&amp; '<b>'; }</script>",
			want:   "function detect(a){ return a &amp;&amp; '<b>'; }",
			wantOK: true,
		},
		{
			name:   "script inside an HTML comment",
			doc:    "<!-- <script>function detect(){ return 0; }</script> --><script>function detect(){ return 1; }</script>",
			want:   "function detect(){ return 1; }",
			wantOK: true,
		},
		{
			name:   "unterminated script",
			doc:    "<script>function detect(){}",
			wantOK: false,
		},
		{
			name:   "empty document",
			doc:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindBlock(tt.doc, "detect")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Contains(t, got, "function detect")
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFindBlockDoesNotSpanScripts(t *testing.T) {
	doc := "<script>var a = 1;</script>\n<script>\nfunction detect(){}\n</script>"
	got, ok := FindBlock(doc, "detect")
	require.True(t, ok)
	assert.Equal(t, "\nfunction detect(){}\n", got)
	assert.NotContains(t, got, "var a")
}

func TestFindBlockMatchesNameLiterally(t *testing.T) {
	_, ok := FindBlock("<script>function aXb(){}</script>", "a.b")
	assert.False(t, ok)

	got, ok := FindBlock("<script>function a.b(){}</script>", "a.b")
	assert.True(t, ok)
	assert.Equal(t, "function a.b(){}", got)
}

func TestWriteEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.js")
	code := "\nfunction detect(t) { return 'تجويد'; }\n"

	require.NoError(t, WriteEngine(path, code))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Header+code, string(data))
}
