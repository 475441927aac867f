// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Default values for the export configuration. The key names under which they
// are read are listed in internal/config.
const (
	DefaultExportFolder            = "/opt/digiverso/export/"
	DefaultMetadataPublicationDate = "$(meta.DateOfOrigin)"
	DefaultMetadataPublicationCode = "$(meta.Type)"
	DefaultDateReadPattern         = "yyyy-MM-dd"
	DefaultDateWritePattern        = "ddMMyyyy"
)

// ExportConfig holds the settings that drive a single export call. It is read
// once per call and not modified afterwards.
type ExportConfig struct {
	// ExportFolder is the root of the archival folder tree.
	ExportFolder string `json:"exportFolder" yaml:"exportFolder"`

	// MetadataPublicationDate is the substitution token that resolves to the
	// document's origination date (e.g. "$(meta.DateOfOrigin)").
	MetadataPublicationDate string `json:"metdataPublicationDate" yaml:"metdataPublicationDate"`

	// MetadataPublicationCode is the substitution token that resolves to the
	// document's classification code (e.g. "$(meta.Type)").
	MetadataPublicationCode string `json:"metdataPublicationCode" yaml:"metdataPublicationCode"`

	// DateReadPattern is the pattern the resolved publication date is written in.
	DateReadPattern string `json:"dateReadPattern" yaml:"dateReadPattern"`

	// DateWritePattern is the pattern used for folder names and file prefixes.
	DateWritePattern string `json:"dateWritePattern" yaml:"dateWritePattern"`
}

// DefaultExportConfig returns an ExportConfig populated with the defaults.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		ExportFolder:            DefaultExportFolder,
		MetadataPublicationDate: DefaultMetadataPublicationDate,
		MetadataPublicationCode: DefaultMetadataPublicationCode,
		DateReadPattern:         DefaultDateReadPattern,
		DateWritePattern:        DefaultDateWritePattern,
	}
}

// WithDefaults returns a copy of c where every empty field is replaced by its default.
func (c ExportConfig) WithDefaults() ExportConfig {
	d := DefaultExportConfig()
	if c.ExportFolder == "" {
		c.ExportFolder = d.ExportFolder
	}
	if c.MetadataPublicationDate == "" {
		c.MetadataPublicationDate = d.MetadataPublicationDate
	}
	if c.MetadataPublicationCode == "" {
		c.MetadataPublicationCode = d.MetadataPublicationCode
	}
	if c.DateReadPattern == "" {
		c.DateReadPattern = d.DateReadPattern
	}
	if c.DateWritePattern == "" {
		c.DateWritePattern = d.DateWritePattern
	}
	return c
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"logLevel" yaml:"logLevel"`

	// Format is console or json (default console).
	Format string `json:"logFormat" yaml:"logFormat"`
}

// AppConfig groups everything the CLI reads from configuration. Its YAML form
// is flat, with the same keys the configuration file uses.
type AppConfig struct {
	Export ExportConfig `json:"export" yaml:",inline"`

	// Journal is the path of the SQLite export journal. Empty disables it.
	Journal string `json:"journal" yaml:"journal"`

	Log LogConfig `json:"log" yaml:",inline"`
}
