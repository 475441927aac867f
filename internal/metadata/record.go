// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata reads a job's descriptive record and resolves substitution
// tokens such as "$(meta.DateOfOrigin)" against it.
package metadata

import (
	"fmt"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

// Record is a job's descriptive record. Fields maps metadata names of the top
// structural element to their values.
type Record struct {
	Type   string            `yaml:"type,omitempty"`
	Fields map[string]string `yaml:"metadata"`
}

// LoadRecord reads the YAML record at path.
func LoadRecord(fs afero.Fs, path string) (*Record, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata record %s: %w", path, err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing metadata record %s: %w", path, err)
	}
	if rec.Fields == nil {
		return nil, fmt.Errorf("metadata record %s has no metadata section", path)
	}
	return &rec, nil
}

// Source opens the substitution capability for a job.
type Source interface {
	Open(job types.Job) (Replacer, error)
}

// FileSource reads records from the job's metadata file.
type FileSource struct {
	Fs afero.Fs
}

// Open loads the job's record and binds a VariableReplacer to it.
func (s FileSource) Open(job types.Job) (Replacer, error) {
	rec, err := LoadRecord(s.Fs, job.MetadataPath())
	if err != nil {
		return nil, err
	}
	return NewVariableReplacer(rec, job), nil
}
