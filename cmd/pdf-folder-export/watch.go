// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-folder-export/internal/jobfile"
	"github.com/pdiddy/pdf-folder-export/internal/watch"
	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [hotfolder]",
	Short: "Export every job descriptor dropped into a folder",
	Long: `Watch processes the job descriptors already in the hotfolder and then
waits for new ones. Each descriptor is exported once and renamed with a .done
or .failed suffix. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 0, "quiet period after the last write to a descriptor (default 200ms)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	osFs := afero.NewOsFs()
	w := &watch.Watcher{
		Dir:      args[0],
		Logger:   a.log,
		Debounce: debounce,
		Load: func(path string) (types.Job, error) {
			return jobfile.Load(osFs, path)
		},
		Export: a.exporter.Export,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}
