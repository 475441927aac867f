// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List exports recorded in the journal",
	Long: `History reads the SQLite export journal configured with --journal or
the journal config key. Without flags it lists the most recent exports;
--process narrows to one job, --yaml and --json dump the whole journal.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of recent exports to list")
	historyCmd.Flags().Int("process", 0, "list exports of one process ID")
	historyCmd.Flags().Bool("yaml", false, "dump the journal as YAML")
	historyCmd.Flags().Bool("json", false, "dump the journal as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	processID, _ := cmd.Flags().GetInt("process")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if a.journal == nil {
		return fmt.Errorf("no journal configured (use --journal or the journal config key)")
	}

	ctx := context.Background()
	switch {
	case asJSON:
		return a.journal.WriteJSON(ctx, os.Stdout)
	case asYAML:
		return a.journal.WriteYAML(ctx, os.Stdout)
	}

	var records []types.ExportRecord
	if processID > 0 {
		records, err = a.journal.ByProcess(ctx, processID)
	} else {
		records, err = a.journal.Recent(ctx, limit)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No exports recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXPORTED\tPROCESS\tCODE\tDATE\tDESTINATION")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			r.ExportedAt.Local().Format(time.DateTime), r.ProcessID, r.PublicationCode, r.PublicationDate, r.Destination)
	}
	return tw.Flush()
}
