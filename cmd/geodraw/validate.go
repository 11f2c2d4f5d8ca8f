package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errInvalid is returned when a file has features that do not load
var errInvalid = errors.New("invalid features")

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check that every feature of a drawing loads",
	Long: `Load each file like the editor does and list the features that would be
skipped: unknown kinds, missing geometry, bad style values and point
counts outside the rules of the kind.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0

	for _, filename := range args {
		p, err := newPlotter()
		if err != nil {
			return err
		}
		loaded, errs, err := loadInto(p, filename)
		p.Close()
		if err != nil {
			return err
		}

		if len(errs) == 0 {
			fmt.Fprintf(out, "%s: ok (%d features)\n", filename, len(loaded))
			continue
		}
		invalid += len(errs)
		fmt.Fprintf(out, "%s: %d valid, %d invalid\n", filename, len(loaded), len(errs))
		for _, e := range errs {
			fmt.Fprintf(out, "  - %v\n", e)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d %w", invalid, errInvalid)
	}
	return nil
}
