package main

import (
	"github.com/philipparndt/geodraw/internal/app"
	"github.com/spf13/cobra"
)

var viewWatch bool

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Open a drawing in the 3D viewport",
	Long: `Open a GeoJSON file in an interactive viewport to draw and edit
features. Without a file a scratch scene is opened at the configured
origin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.Options{Config: cfg, Logger: logger, Watch: viewWatch}
		if len(args) == 1 {
			opts.Path = args[0]
		}
		return app.Run(opts)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", true, "reload the file when it changes")
}
