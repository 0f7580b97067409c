// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one extraction run: read the HTML export, cut
// out the WARSH_DATA literal, decode it, split it into per-sura files and
// save the tajweed engine script.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pdiddy/warsh-extract/internal/engine"
	"github.com/pdiddy/warsh-extract/internal/literal"
	"github.com/pdiddy/warsh-extract/internal/loader"
	"github.com/pdiddy/warsh-extract/internal/partition"
	"github.com/pdiddy/warsh-extract/pkg/types"
)

// Fatal conditions. Each stops the run before any data file is written.
var (
	ErrMissingInput      = errors.New("source document not found")
	ErrMarkerNotFound    = errors.New("data marker not found")
	ErrUnbalancedLiteral = errors.New("data literal is not balanced")
	ErrDecode            = errors.New("data literal could not be decoded")
)

// Summary describes a completed run.
type Summary struct {
	// Suras is the number of per-sura files written.
	Suras int
	// Repaired reports whether bare keys had to be quoted before decoding.
	Repaired bool
	// IndexPath is the table-of-contents file, empty unless cfg.IndexFile was set.
	IndexPath string
	// EngineWritten is false when no script block declared the engine function.
	EngineWritten bool
}

// Run executes the pipeline described by cfg, printing progress lines to w.
// Empty fields of cfg take their defaults.
func Run(ctx context.Context, cfg types.ExtractConfig, w io.Writer) (Summary, error) {
	cfg = cfg.WithDefaults()

	content, err := os.ReadFile(cfg.SourceFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Summary{}, fmt.Errorf("%w: put %s in this folder first", ErrMissingInput, cfg.SourceFile)
		}
		return Summary{}, fmt.Errorf("reading %s: %w", cfg.SourceFile, err)
	}
	doc := string(content)

	fmt.Fprintln(w, "Extracting Quran data...")
	ds, repaired, err := loadDataset(doc, cfg, w)
	if err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	summary := Summary{Repaired: repaired}

	fmt.Fprintf(w, "Found %d suras. Splitting...\n", len(ds.Text))
	out := partition.NewWriter(cfg.DataDir)
	index, err := partition.Split(ds, out, w)
	if err != nil {
		return summary, fmt.Errorf("splitting suras: %w", err)
	}
	summary.Suras = len(index)

	if cfg.IndexFile != "" {
		if err := partition.WriteIndex(cfg.IndexFile, index); err != nil {
			return summary, err
		}
		summary.IndexPath = cfg.IndexFile
	}
	fmt.Fprintln(w, "Data split complete.")

	fmt.Fprintln(w, "Extracting tajweed engine...")
	code, ok := engine.FindBlock(doc, cfg.EngineFunction)
	if !ok {
		fmt.Fprintf(w, "warning: no <script> block declares function %s; skipping %s\n", cfg.EngineFunction, cfg.EngineFile)
		return summary, nil
	}
	if err := engine.WriteEngine(cfg.EngineFile, code); err != nil {
		return summary, err
	}
	summary.EngineWritten = true
	fmt.Fprintf(w, "Saved %s\n", cfg.EngineFile)

	return summary, nil
}

// loadDataset locates, delimits and decodes the data literal.
func loadDataset(doc string, cfg types.ExtractConfig, w io.Writer) (*types.Dataset, bool, error) {
	mode := literal.ModeStringAware
	if cfg.NaiveBraces {
		mode = literal.ModeNaive
	}

	candidate, err := literal.Extract(doc, cfg.DataMarker, mode)
	switch {
	case errors.Is(err, literal.ErrMarkerNotFound):
		return nil, false, fmt.Errorf("%w: %v", ErrMarkerNotFound, err)
	case errors.Is(err, literal.ErrUnbalanced):
		return nil, false, fmt.Errorf("%w: %v", ErrUnbalancedLiteral, err)
	case err != nil:
		return nil, false, err
	}

	res, err := loader.Decode(candidate)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if res.Repaired {
		fmt.Fprintln(w, "warning: direct JSON parse failed; decoded after quoting bare keys")
	}
	return res.Dataset, res.Repaired, nil
}
