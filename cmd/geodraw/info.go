package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/philipparndt/geodraw/pkg/measure"
	"github.com/philipparndt/geodraw/pkg/stl"
	"github.com/spf13/cobra"
)

var infoTop int

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display lengths and areas of a drawing",
	Long: `Show the features of a GeoJSON file or snapshot side-car by kind,
the total length and area and the longest and largest features.
STL files are reported with their facet count and extent.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntVarP(&infoTop, "top", "n", 5, "number of longest and largest features to list")
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]
	out := cmd.OutOrStdout()

	if strings.EqualFold(filepath.Ext(filename), ".stl") {
		return printModelInfo(out, filename)
	}

	p, err := newPlotter()
	if err != nil {
		return err
	}
	defer p.Close()

	_, errs, err := loadInto(p, filename)
	if err != nil {
		return err
	}

	summary := measure.Summarize(p.Features(), p.Ellipsoid())

	fmt.Fprintln(out, "Drawing Information")
	fmt.Fprintln(out, "===================")
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Features:")
	fmt.Fprintf(out, "  Total: %d\n", summary.Features)
	for _, kind := range summary.Kinds() {
		fmt.Fprintf(out, "  %s: %d\n", kind, summary.ByKind[kind])
	}
	if len(errs) > 0 {
		fmt.Fprintf(out, "  Skipped: %d\n", len(errs))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Totals:")
	fmt.Fprintf(out, "  Length: %s\n", measure.FormatLength(summary.TotalLength))
	fmt.Fprintf(out, "  Area: %s\n", measure.FormatArea(summary.TotalArea))

	if longest := withLength(measure.FindLongest(summary.Reports, infoTop)); len(longest) > 0 {
		fmt.Fprintln(out, "\nLongest:")
		for i, r := range longest {
			fmt.Fprintf(out, "  %d. %s %s: %s\n", i+1, r.Kind, r.ID, measure.FormatLength(r.Length))
		}
	}
	if largest := withArea(measure.FindLargest(summary.Reports, infoTop)); len(largest) > 0 {
		fmt.Fprintln(out, "\nLargest:")
		for i, r := range largest {
			fmt.Fprintf(out, "  %d. %s %s: %s\n", i+1, r.Kind, r.ID, measure.FormatArea(r.Area))
		}
	}
	return nil
}

func withLength(reports []measure.Report) []measure.Report {
	var out []measure.Report
	for _, r := range reports {
		if r.Length > 0 {
			out = append(out, r)
		}
	}
	return out
}

func withArea(reports []measure.Report) []measure.Report {
	var out []measure.Report
	for _, r := range reports {
		if r.Area > 0 {
			out = append(out, r)
		}
	}
	return out
}

func printModelInfo(out io.Writer, filename string) error {
	model, err := stl.Parse(filename)
	if err != nil {
		return fmt.Errorf("failed to parse STL file: %w", err)
	}

	bbox := model.Bounds()
	size := bbox.Size()

	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	if model.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Facets: %d\n", model.FacetCount())
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", model.SurfaceArea())

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", size.X)
	fmt.Fprintf(out, "  Depth (Y): %.6f units\n", size.Y)
	fmt.Fprintf(out, "  Height (Z): %.6f units\n", size.Z)
	fmt.Fprintf(out, "  Extent: %.6f units\n", model.Extent())
	if cfg.Models.Unit > 0 {
		fmt.Fprintf(out, "  Model size: %s\n", measure.FormatLength(model.Extent()*cfg.Models.Unit))
	}
	return nil
}
