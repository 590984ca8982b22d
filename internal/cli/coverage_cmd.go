package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/miwamasa/xsdcoverage/coverage"
	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

func newCoverageCmd(logger *zap.Logger) *cobra.Command {
	var maxDepth int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "coverage <schema.xsd> <file.xml> [file.xml...]",
		Short: "Measure element/attribute path coverage of one or more XML documents",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schemaPath, xmlPaths := args[0], args[1:]

			model, err := loadSchema(ctx, schemaPath)
			if err != nil {
				logger.Warn("schema load failed", zap.Error(err))
				return withExitCode(err, ExitSchemaError)
			}

			result, err := pathmodel.Enumerate(ctx, model, maxDepth)
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}

			var docs []coverage.NamedDocument
			var parseErrs []error
			for _, p := range xmlPaths {
				data, err := os.ReadFile(p)
				if err != nil {
					return withExitCode(fmt.Errorf("reading %s: %w", p, err), ExitUsageError)
				}
				doc, err := coverage.ParseDocument(p, data)
				if err != nil {
					logger.Warn("skipping unparseable XML document", zap.Error(err))
					parseErrs = append(parseErrs, err)
					continue
				}
				docs = append(docs, coverage.NamedDocument{Name: p, Document: doc})
			}

			report, err := coverage.Measure(result.Ground, docs)
			if err != nil {
				return withExitCode(err, ExitUsageError)
			}

			if asJSON {
				return printCoverageReportJSON(cmd, report)
			}
			printCoverageReport(cmd, report)
			for _, e := range parseErrs {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %v\n", e)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "maxDepth", 10, "maximum path depth to enumerate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON instead of plain text")
	return cmd
}

func loadSchema(ctx context.Context, path string) (*schema.Model, error) {
	dir := "."
	base := path
	if i := lastSlash(path); i >= 0 {
		dir = path[:i]
		base = path[i+1:]
	}
	return schema.NewLoader(os.DirFS(dir)).Load(ctx, base)
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func printCoverageReport(cmd *cobra.Command, r *coverage.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Element coverage:")
	fmt.Fprintf(out, "  defined: %d  used: %d  unused: %d  coverage: %.2f%%\n",
		r.DefinedElements, r.CoveredElements, len(r.UnusedElements), percent(r.CoveredElements, r.DefinedElements))

	fmt.Fprintln(out, "Attribute coverage:")
	fmt.Fprintf(out, "  defined: %d  used: %d  unused: %d  coverage: %.2f%%\n",
		r.DefinedAttrs, r.CoveredAttrs, len(r.UnusedAttrs), percent(r.CoveredAttrs, r.DefinedAttrs))

	fmt.Fprintf(out, "Overall coverage: %.2f%%\n", r.OverallPercent())

	fmt.Fprintln(out, "Unused paths:")
	for _, p := range r.UnusedElements {
		fmt.Fprintf(out, "  %s\n", p)
	}
	for _, p := range r.UnusedAttrs {
		fmt.Fprintf(out, "  %s\n", p)
	}

	if r.ExternalPathCount > 0 {
		fmt.Fprintf(out, "Info: %d path(s) belong to an externally imported schema (e.g. XML Digital Signature):\n", r.ExternalPathCount)
		for _, w := range r.UndefinedPaths {
			if w.External {
				fmt.Fprintf(out, "  %s (%s)\n", w.Path, w.File)
			}
		}
	}
	if r.TrulyUndefinedPathCount > 0 {
		fmt.Fprintf(out, "Warning: %d path(s) are not defined by this schema or any import:\n", r.TrulyUndefinedPathCount)
		for _, w := range r.UndefinedPaths {
			if !w.External {
				fmt.Fprintf(out, "  %s (%s)\n", w.Path, w.File)
			}
		}
	}

	fmt.Fprintln(out, "Used paths:")
	for _, p := range r.UsedElements {
		fmt.Fprintf(out, "  %s\n", p)
	}
	for _, p := range r.UsedAttrs {
		fmt.Fprintf(out, "  %s\n", p)
	}
}

// coverageReportJSON mirrors coverage.Report field for field; a dedicated
// type keeps the wire shape stable even if Report grows internal fields
// later.
type coverageReportJSON struct {
	DefinedElements         int                 `json:"definedElements"`
	DefinedAttrs            int                 `json:"definedAttrs"`
	CoveredElements         int                 `json:"coveredElements"`
	CoveredAttrs            int                 `json:"coveredAttrs"`
	OverallPercent          float64             `json:"overallPercent"`
	UnusedElements          []pathmodel.Path    `json:"unusedElements"`
	UnusedAttrs             []pathmodel.Path    `json:"unusedAttrs"`
	UsedElements            []pathmodel.Path    `json:"usedElements"`
	UsedAttrs               []pathmodel.Path    `json:"usedAttrs"`
	ExternalPathCount       int                 `json:"externalPathCount"`
	TrulyUndefinedPathCount int                 `json:"trulyUndefinedPathCount"`
	UndefinedPaths          []undefinedPathJSON `json:"undefinedPaths,omitempty"`
}

type undefinedPathJSON struct {
	Path     string `json:"path"`
	File     string `json:"file"`
	External bool   `json:"external"`
}

func printCoverageReportJSON(cmd *cobra.Command, r *coverage.Report) error {
	out := coverageReportJSON{
		DefinedElements:         r.DefinedElements,
		DefinedAttrs:            r.DefinedAttrs,
		CoveredElements:         r.CoveredElements,
		CoveredAttrs:            r.CoveredAttrs,
		OverallPercent:          r.OverallPercent(),
		UnusedElements:          r.UnusedElements,
		UnusedAttrs:             r.UnusedAttrs,
		UsedElements:            r.UsedElements,
		UsedAttrs:               r.UsedAttrs,
		ExternalPathCount:       r.ExternalPathCount,
		TrulyUndefinedPathCount: r.TrulyUndefinedPathCount,
	}
	for _, w := range r.UndefinedPaths {
		out.UndefinedPaths = append(out.UndefinedPaths, undefinedPathJSON{Path: w.Path, File: w.File, External: w.External})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func percent(used, defined int) float64 {
	if defined == 0 {
		return 0
	}
	return 100 * float64(used) / float64(defined)
}
