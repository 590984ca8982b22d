package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/miwamasa/xsdcoverage/coverage"
	"github.com/miwamasa/xsdcoverage/validate"
)

type validateEntryJSON struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type validateSummaryJSON struct {
	Results []validateEntryJSON `json:"results"`
	Valid   int                 `json:"valid"`
	Invalid int                 `json:"invalid"`
	Total   int                 `json:"total"`
}

func newValidateCmd(logger *zap.Logger) *cobra.Command {
	var reportPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <schema.xsd> <file.xml> [file.xml...]",
		Short: "Validate XML documents against a schema's particle structure",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schemaPath, xmlPaths := args[0], args[1:]

			model, err := loadSchema(ctx, schemaPath)
			if err != nil {
				logger.Warn("schema load failed", zap.Error(err))
				return withExitCode(err, ExitSchemaError)
			}

			out := cmd.OutOrStdout()
			var reportFile *os.File
			if reportPath != "" {
				reportFile, err = os.Create(reportPath)
				if err != nil {
					return withExitCode(err, ExitUsageError)
				}
				defer reportFile.Close()
			}

			var summary validateSummaryJSON
			for _, p := range xmlPaths {
				if err := ctx.Err(); err != nil {
					return withExitCode(err, ExitUsageError)
				}
				data, err := os.ReadFile(p)
				if err != nil {
					return withExitCode(fmt.Errorf("reading %s: %w", p, err), ExitUsageError)
				}
				doc, err := coverage.ParseDocument(p, data)
				if err != nil {
					recordValidationResult(&summary, out, reportFile, asJSON, p, fmt.Errorf("parse error: %w", err))
					continue
				}

				verr := validate.Document(model, doc)
				recordValidationResult(&summary, out, reportFile, asJSON, p, verr)
			}

			summary.Total = summary.Valid + summary.Invalid
			if asJSON {
				if err := json.NewEncoder(out).Encode(summary); err != nil {
					return withExitCode(err, ExitUsageError)
				}
			} else {
				fmt.Fprintf(out, "Summary: %d valid, %d invalid, %d total\n", summary.Valid, summary.Invalid, summary.Total)
			}

			if summary.Invalid > 0 {
				return withExitCode(fmt.Errorf("%d document(s) failed validation", summary.Invalid), ExitValidationErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "optional path to write a tab-separated validation report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit a JSON summary instead of plain text")
	return cmd
}

func recordValidationResult(summary *validateSummaryJSON, out io.Writer, reportFile *os.File, asJSON bool, file string, verr error) {
	if verr != nil {
		summary.Invalid++
		summary.Results = append(summary.Results, validateEntryJSON{File: file, Valid: false, Error: verr.Error()})
		if !asJSON {
			fmt.Fprintf(out, "%s: INVALID (%s)\n", file, verr)
		}
		if reportFile != nil {
			fmt.Fprintf(reportFile, "%s\tINVALID\t%s\n", file, verr)
		}
		return
	}
	summary.Valid++
	summary.Results = append(summary.Results, validateEntryJSON{File: file, Valid: true})
	if !asJSON {
		fmt.Fprintf(out, "%s: VALID\n", file)
	}
	if reportFile != nil {
		fmt.Fprintf(reportFile, "%s\tVALID\t\n", file)
	}
}
