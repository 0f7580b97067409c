// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/warsh-extract/internal/fsutil"
)

// ExportFile is the default name of the YAML sura listing.
const ExportFile = "catalog.yaml"

// ExportYAML writes the indexed suras to path, or to indexDir/catalog.yaml
// when path is empty, and returns the path written.
func (s *Store) ExportYAML(ctx context.Context, path string) (string, error) {
	suras, err := s.Suras(ctx)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(s.indexDir, ExportFile)
	}

	data, err := yaml.Marshal(suras)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
