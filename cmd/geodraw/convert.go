package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert between GeoJSON and snapshot side-cars",
	Long: `Read a GeoJSON file or a .geodraw snapshot and write it in the format
named by the output extension. Features that break the point rules of
their kind are skipped and reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	p, err := newPlotter()
	if err != nil {
		return err
	}
	defer p.Close()

	loaded, skipped, err := loadInto(p, input)
	if err != nil {
		return err
	}
	for _, e := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", e)
	}

	if errs := writeFrom(p, output); len(errs) > 0 {
		return fmt.Errorf("failed to convert %s: %w", input, errors.Join(errs...))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d features from %s to %s\n", len(loaded), input, output)
	return nil
}
