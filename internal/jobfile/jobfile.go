// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobfile decodes job descriptors. A descriptor names the job and
// where its record and master images live; it is written as YAML or TOML.
package jobfile

import (
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

// IsDescriptor reports whether name has a descriptor extension.
func IsDescriptor(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// Load reads the descriptor at path, choosing the decoder by extension.
// Relative paths inside the descriptor are resolved against its directory.
func Load(fs afero.Fs, path string) (types.Job, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return types.Job{}, fmt.Errorf("reading job descriptor %s: %w", path, err)
	}

	var job types.Job
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &job)
	case ".toml":
		err = toml.Unmarshal(data, &job)
	default:
		return types.Job{}, fmt.Errorf("job descriptor %s: unsupported extension", path)
	}
	if err != nil {
		return types.Job{}, fmt.Errorf("parsing job descriptor %s: %w", path, err)
	}
	if job.ID <= 0 {
		return types.Job{}, fmt.Errorf("job descriptor %s: missing or invalid id", path)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&job.ProcessDir, &job.MetadataFile, &job.ImagesOrigDir, &job.ImportImagesPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return job, nil
}
