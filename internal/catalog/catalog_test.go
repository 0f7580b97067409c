// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/warsh-extract/internal/partition"
	"github.com/pdiddy/warsh-extract/pkg/types"
)

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	store, err := NewStore(types.CatalogConfig{
		DataDir:    dataDir,
		IndexDir:   filepath.Join(tmpDir, "index"),
		MaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, dataDir
}

func writeSura(t *testing.T, dataDir string, s types.Sura) {
	t.Helper()
	_, err := partition.NewWriter(dataDir).Write(s)
	require.NoError(t, err)
}

func sampleSuras() []types.Sura {
	return []types.Sura{
		{
			Key: "1", ID: 1, NameAr: "الفاتحة", NameEn: "Al-Fatihah",
			Verses: json.RawMessage(`["In the name of God","Praise be to God"]`),
		},
		{
			Key: "112", ID: 112, NameAr: "الإخلاص", NameEn: "Al-Ikhlas",
			Verses: json.RawMessage(`[{"text":"Say He is God the One","n":1},{"text":"God the Eternal","n":2}]`),
		},
	}
}

func ingestSamples(t *testing.T, store *Store, dataDir string) IngestSummary {
	t.Helper()
	for _, s := range sampleSuras() {
		writeSura(t, dataDir, s)
	}

	summary, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	return summary
}

func TestIngest(t *testing.T) {
	store, dataDir := testSetup(t)

	summary := ingestSamples(t, store, dataDir)
	assert.Equal(t, IngestSummary{Indexed: 2}, summary)
	assert.Equal(t, 2, summary.Total())

	suras, err := store.Suras(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.SuraIndexEntry{
		{ID: 1, NameAr: "الفاتحة", NameEn: "Al-Fatihah", VerseCount: 2},
		{ID: 112, NameAr: "الإخلاص", NameEn: "Al-Ikhlas", VerseCount: 2},
	}, suras)
}

func TestIngestSkipsUnchanged(t *testing.T) {
	store, dataDir := testSetup(t)
	ingestSamples(t, store, dataDir)

	summary, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Skipped: 2}, summary)
}

func TestIngestUpdatesChanged(t *testing.T) {
	store, dataDir := testSetup(t)
	ingestSamples(t, store, dataDir)

	s := sampleSuras()[0]
	s.Verses = json.RawMessage(`["In the name of God"]`)
	writeSura(t, dataDir, s)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dataDir, "1.json"), future, future))

	var out bytes.Buffer
	summary, err := store.Ingest(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Updated: 1, Skipped: 1}, summary)
	assert.Contains(t, out.String(), "updated 1 (1 verses)")

	results, err := store.Search(context.Background(), QueryOptions{SuraID: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestIngestReportsBadFiles(t *testing.T) {
	store, dataDir := testSetup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "5.json"), []byte(`{not json`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "notes.json"), []byte(`{"id":1,"verses":[]}`), 0o644))

	var out bytes.Buffer
	summary, err := store.Ingest(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failed)
	assert.Contains(t, out.String(), "failed  5")
}

func TestIngestMissingDataDir(t *testing.T) {
	store, dataDir := testSetup(t)
	require.NoError(t, os.RemoveAll(dataDir))

	_, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	store, dataDir := testSetup(t)
	ingestSamples(t, store, dataDir)

	tests := []struct {
		name string
		opts QueryOptions
		want [][2]int
	}{
		{name: "text query", opts: QueryOptions{Query: "name"}, want: [][2]int{{1, 1}}},
		{name: "text inside structured verse", opts: QueryOptions{Query: "Eternal"}, want: [][2]int{{112, 2}}},
		{name: "sura filter", opts: QueryOptions{SuraID: 112}, want: [][2]int{{112, 1}, {112, 2}}},
		{name: "query and filter", opts: QueryOptions{Query: "God", SuraID: 1}, want: [][2]int{{1, 1}, {1, 2}}},
		{name: "limit", opts: QueryOptions{SuraID: 1, MaxResults: 1}, want: [][2]int{{1, 1}}},
		{name: "no match", opts: QueryOptions{Query: "absent"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(context.Background(), tt.opts)
			require.NoError(t, err)

			var got [][2]int
			for _, r := range results {
				got = append(got, [2]int{r.SuraID, r.Number})
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestSearchCarriesSuraNamesAndRaw(t *testing.T) {
	store, dataDir := testSetup(t)
	ingestSamples(t, store, dataDir)

	results, err := store.Search(context.Background(), QueryOptions{SuraID: 112, MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Al-Ikhlas", results[0].NameEn)
	assert.Equal(t, "الإخلاص", results[0].NameAr)
	assert.Equal(t, "Say He is God the One", results[0].Text)
	assert.JSONEq(t, `{"text":"Say He is God the One","n":1}`, string(results[0].Raw))
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{}.IsEmpty())
	assert.True(t, QueryOptions{MaxResults: 5}.IsEmpty())
	assert.False(t, QueryOptions{Query: "x"}.IsEmpty())
	assert.False(t, QueryOptions{SuraID: 2}.IsEmpty())
}

func TestExportYAML(t *testing.T) {
	store, dataDir := testSetup(t)
	ingestSamples(t, store, dataDir)

	path, err := store.ExportYAML(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.indexDir, ExportFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []types.SuraIndexEntry
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Al-Fatihah", got[0].NameEn)
	assert.Equal(t, 2, got[1].VerseCount)
}

func TestVerseText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: `"plain verse"`, want: "plain verse"},
		{raw: `{"text":"a","audio":"b","n":3}`, want: "b a"},
		{raw: `[["x"],{"y":"z"}]`, want: "x z"},
		{raw: `42`, want: ""},
		{raw: `not json`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, VerseText(json.RawMessage(tt.raw)))
		})
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	store, dataDir := testSetup(t)
	ingestSamples(t, store, dataDir)

	reopened, err := NewStore(types.CatalogConfig{DataDir: dataDir, IndexDir: store.indexDir})
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, store.fts, reopened.fts)

	suras, err := reopened.Suras(context.Background())
	require.NoError(t, err)
	assert.Len(t, suras, 2)
}
