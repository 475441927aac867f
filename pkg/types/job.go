// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"
)

const (
	// metadataFileName is the record file inside a process directory.
	metadataFileName = "meta.yaml"
	// imagesDir is the subdirectory of a process directory that holds image folders.
	imagesDir = "images"
)

// Job describes one processing job whose document is to be exported.
type Job struct {
	// ID is the numeric job identifier.
	ID int `json:"id" yaml:"id" toml:"id"`

	// Title is the job title, also used to derive the master images folder name.
	Title string `json:"title" yaml:"title" toml:"title"`

	// ProcessDir is the job's working directory.
	ProcessDir string `json:"process_dir,omitempty" yaml:"process_dir,omitempty" toml:"process_dir"`

	// MetadataFile overrides the record location (default <ProcessDir>/meta.yaml).
	MetadataFile string `json:"metadata_file,omitempty" yaml:"metadata_file,omitempty" toml:"metadata_file"`

	// ImagesOrigDir overrides the master images folder
	// (default <ProcessDir>/images/orig_<Title>_media).
	ImagesOrigDir string `json:"images_orig_dir,omitempty" yaml:"images_orig_dir,omitempty" toml:"images_orig_dir"`

	// ImportImagesPath is the job's configured image-import path. Export without
	// an explicit destination uses it as root when set.
	ImportImagesPath string `json:"import_images_path,omitempty" yaml:"import_images_path,omitempty" toml:"import_images_path"`
}

// MetadataPath returns the path of the job's descriptive record.
func (j Job) MetadataPath() string {
	if j.MetadataFile != "" {
		return j.MetadataFile
	}
	return filepath.Join(j.ProcessDir, metadataFileName)
}

// SourceDir returns the job's master images folder, where the PDF to export lives.
func (j Job) SourceDir() string {
	if j.ImagesOrigDir != "" {
		return j.ImagesOrigDir
	}
	return filepath.Join(j.ProcessDir, imagesDir, "orig_"+j.Title+"_media")
}

// Outcome is the result of one export call. Success is true only when the PDF
// was copied; Problems lists human-readable reasons otherwise.
type Outcome struct {
	Success  bool     `json:"success" yaml:"success"`
	Problems []string `json:"problems" yaml:"problems"`

	// Kind classifies the failure, empty on success.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Folder and File are set once the destination has been planned.
	Folder string `json:"folder,omitempty" yaml:"folder,omitempty"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ExportRecord is one journal entry describing a completed export.
type ExportRecord struct {
	ProcessID       int       `json:"process_id" yaml:"process_id"`
	ProcessTitle    string    `json:"process_title" yaml:"process_title"`
	PublicationCode string    `json:"publication_code" yaml:"publication_code"`
	PublicationDate string    `json:"publication_date" yaml:"publication_date"`
	Source          string    `json:"source" yaml:"source"`
	Destination     string    `json:"destination" yaml:"destination"`
	ExportedAt      time.Time `json:"exported_at" yaml:"exported_at"`
}
