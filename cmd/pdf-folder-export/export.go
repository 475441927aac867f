// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-folder-export/internal/jobfile"
	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [job descriptor]",
	Short: "Export the PDF of one job",
	Long: `Export reads a job descriptor (YAML or TOML), resolves the publication
date and code from the job's metadata record, and copies the first PDF of the
job's master images folder into the archival folder tree.

Problems are printed one per line and the command exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("destination", "", "export root for this call (default: the job's import path, then exportFolder)")
	exportCmd.Flags().Bool("json", false, "print the outcome as JSON")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	destination, _ := cmd.Flags().GetString("destination")
	asJSON, _ := cmd.Flags().GetBool("json")

	job, err := jobfile.Load(afero.NewOsFs(), args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	var out types.Outcome
	if destination != "" {
		out, err = a.exporter.ExportTo(ctx, job, destination)
	} else {
		out, err = a.exporter.Export(ctx, job)
	}
	if err != nil {
		return fmt.Errorf("export of process %d failed: %w", job.ID, err)
	}
	return reportOutcome(os.Stdout, job, out, asJSON)
}

// reportOutcome prints the outcome and returns an error when the export did not succeed.
func reportOutcome(w io.Writer, job types.Job, out types.Outcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else if out.Success {
		fmt.Fprintf(w, "exported: process %d -> %s\n", job.ID, out.File)
	} else {
		for _, p := range out.Problems {
			fmt.Fprintf(w, "problem: %s\n", p)
		}
	}
	if !out.Success {
		return fmt.Errorf("export of process %d was not successful", job.ID)
	}
	return nil
}
