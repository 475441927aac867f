// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

// Dump is the document written by WriteYAML and WriteJSON.
type Dump struct {
	Exports []types.ExportRecord `json:"exports" yaml:"exports"`
}

// WriteYAML writes the whole journal to w as YAML.
func (s *Store) WriteYAML(ctx context.Context, w io.Writer) error {
	d, err := s.dump(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the whole journal to w as indented JSON.
func (s *Store) WriteJSON(ctx context.Context, w io.Writer) error {
	d, err := s.dump(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func (s *Store) dump(ctx context.Context) (Dump, error) {
	records, err := s.All(ctx)
	if err != nil {
		return Dump{}, err
	}
	if records == nil {
		records = []types.ExportRecord{}
	}
	return Dump{Exports: records}, nil
}
