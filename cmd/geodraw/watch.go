package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/geodraw/internal/document"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/measure"
	"github.com/philipparndt/geodraw/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Reload a drawing on every change and print its totals",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchFile(ctx, cmd, args[0])
}

// watchFile runs the reload loop until ctx is done. Reloads are applied on
// this goroutine, which owns the plotter.
func watchFile(ctx context.Context, cmd *cobra.Command, filename string) error {
	p, err := newPlotter()
	if err != nil {
		return err
	}
	defer p.Close()

	debounce, err := cfg.Debounce()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tasks := make(chan func(), 16)
	doc := document.New(filename, p, false, logger)
	r, err := doc.Watch(watcher.ReloaderOptions{
		Debounce: debounce,
		Schedule: func(fn func()) { tasks <- fn },
		Logger:   logger,
		OnReload: func(path string, loaded []*feature.Feature, errs []error) {
			s := measure.Summarize(p.Features(), p.Ellipsoid())
			fmt.Fprintf(out, "%s: %d features, %d skipped, length %s, area %s\n",
				path, s.Features, len(errs), measure.FormatLength(s.TotalLength), measure.FormatArea(s.TotalArea))
		},
	})
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes\n", filename)
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-tasks:
			fn()
		}
	}
}
