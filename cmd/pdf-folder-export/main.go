// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf-folder-export CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-folder-export/internal/config"
	"github.com/pdiddy/pdf-folder-export/internal/export"
	"github.com/pdiddy/pdf-folder-export/internal/journal"
	"github.com/pdiddy/pdf-folder-export/internal/logging"
	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// v holds the configuration shared by all subcommands.
var v = config.New()

// rootCmd is the base command for the pdf-folder-export CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf-folder-export",
	Short: "Export digitized PDFs into the dated archival folder tree",
	Long: `pdf-folder-export copies the scanned PDF of a finished digitization job
into <root>/<today>/<publication code>/<document date>/ under the first free
name <document date>_NN.pdf. Publication date and code are read from the job's
metadata record.

Run a single job with "export", or keep a hotfolder of job descriptors
processed with "watch".`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf-folder-export.yaml or ~/.config/pdf-folder-export/config.yaml)")
	rootCmd.PersistentFlags().String("journal", "", "SQLite export journal (overrides the journal config key)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	v.BindPFlag(config.KeyJournal, rootCmd.PersistentFlags().Lookup("journal"))
	v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pdf-folder-export")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pdf-folder-export"))
		}
	}

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}

// app is what the subcommands need at run time.
type app struct {
	cfg      types.AppConfig
	log      logging.Logger
	exporter *export.Exporter
	journal  *journal.Store
}

// newApp loads the configuration and builds the exporter, opening the journal
// when one is configured. The caller must call close.
func newApp() (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	a := &app{cfg: cfg, log: log}
	opts := []export.Option{export.WithLogger(log)}
	if cfg.Journal != "" {
		store, err := journal.Open(cfg.Journal)
		if err != nil {
			return nil, err
		}
		a.journal = store
		opts = append(opts, export.WithRecorder(store))
	}
	a.exporter = export.New(cfg.Export, opts...)
	return a, nil
}

func (a *app) close() {
	if a.journal != nil {
		a.journal.Close()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
