package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/geodraw/internal/config"
	"github.com/philipparndt/geodraw/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	cfg    = config.Default()
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "geodraw",
	Short: "Author and inspect geographic drawings",
	Long: `geodraw draws and edits points, lines, areas and volumes on the globe.
It reads and writes GeoJSON, keeps a snapshot side-car next to each file
and reports lengths and areas of what was drawn.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", fmt.Sprintf("configuration file (default %s)", config.DefaultPath))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
