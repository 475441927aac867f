// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-folder-export/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Config prints the configuration after defaults, the config file and
PDF_FOLDER_EXPORT_* environment variables have been applied. The output is a
valid configuration file for --config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		return config.Write(os.Stdout, cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
