// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config reads the export configuration through viper. Key names match
// the plugin configuration the archive operators already maintain.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-folder-export/internal/datefmt"
	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

// Configuration keys.
const (
	KeyExportFolder            = "exportFolder"
	KeyMetadataPublicationDate = "metdataPublicationDate"
	KeyMetadataPublicationCode = "metdataPublicationCode"
	KeyDateReadPattern         = "dateReadPattern"
	KeyDateWritePattern        = "dateWritePattern"
	KeyJournal                 = "journal"
	KeyLogLevel                = "logLevel"
	KeyLogFormat               = "logFormat"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys.
const EnvPrefix = "PDF_FOLDER_EXPORT"

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyExportFolder, types.DefaultExportFolder)
	v.SetDefault(KeyMetadataPublicationDate, types.DefaultMetadataPublicationDate)
	v.SetDefault(KeyMetadataPublicationCode, types.DefaultMetadataPublicationCode)
	v.SetDefault(KeyDateReadPattern, types.DefaultDateReadPattern)
	v.SetDefault(KeyDateWritePattern, types.DefaultDateWritePattern)
	v.SetDefault(KeyJournal, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads the application configuration from v. Both date patterns are
// compiled so that a broken pattern is reported before any export runs.
func Load(v *viper.Viper) (types.AppConfig, error) {
	cfg := types.AppConfig{
		Export: types.ExportConfig{
			ExportFolder:            v.GetString(KeyExportFolder),
			MetadataPublicationDate: v.GetString(KeyMetadataPublicationDate),
			MetadataPublicationCode: v.GetString(KeyMetadataPublicationCode),
			DateReadPattern:         v.GetString(KeyDateReadPattern),
			DateWritePattern:        v.GetString(KeyDateWritePattern),
		}.WithDefaults(),
		Journal: v.GetString(KeyJournal),
		Log: types.LogConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
	}

	if _, err := datefmt.NewTranslator(cfg.Export.DateReadPattern, cfg.Export.DateWritePattern); err != nil {
		return types.AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return types.AppConfig{}, fmt.Errorf("invalid configuration: %s must be console or json, got %q", KeyLogFormat, cfg.Log.Format)
	}
	return cfg, nil
}

// New returns a viper instance with defaults and environment overrides
// (PDF_FOLDER_EXPORT_EXPORTFOLDER and so on) registered.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Write renders cfg as a configuration file that Load reads back unchanged.
func Write(w io.Writer, cfg types.AppConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return enc.Close()
}
