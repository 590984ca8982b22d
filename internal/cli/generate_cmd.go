package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	xsderrors "github.com/miwamasa/xsdcoverage/errors"
	"github.com/miwamasa/xsdcoverage/generate/greedy"
	"github.com/miwamasa/xsdcoverage/generate/pairwise"
	"github.com/miwamasa/xsdcoverage/generate/smt"
	"github.com/miwamasa/xsdcoverage/materialize"
	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

// logMaterializationWarning reports the required descendants the
// emergency-descent cap omitted from a generated file, per §7's
// warn-don't-fail policy for materialization shortfalls.
func logMaterializationWarning(logger *zap.Logger, file string, omitted []pathmodel.Path) {
	if len(omitted) == 0 {
		return
	}
	paths := make([]string, len(omitted))
	for i, p := range omitted {
		paths[i] = string(p)
	}
	warning := &xsderrors.MaterializationWarning{File: file, Omitted: paths}
	logger.Warn(warning.Error(), zap.String("file", file), zap.Strings("omitted", paths))
}

func newGenerateCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate XML documents exercising a schema's paths",
	}
	cmd.AddCommand(newGenerateGreedyCmd(logger))
	cmd.AddCommand(newGenerateSMTCmd(logger))
	cmd.AddCommand(newGeneratePairwiseCmd(logger))
	return cmd
}

// nsOverride resolves the --namespace prefix=uri flag against the
// schema's own targetNamespace, falling back to it when unset.
func nsOverride(model *schema.Model, raw string) (namespace, prefix string) {
	namespace = model.TargetNamespace
	if raw == "" {
		return namespace, ""
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] == '=' {
			return raw[i+1:], raw[:i]
		}
	}
	return raw, ""
}

func rootElementName(model *schema.Model) (string, error) {
	if len(model.RootElements) == 0 {
		return "", fmt.Errorf("schema declares no top-level elements")
	}
	return model.RootElements[0].Name, nil
}

func newGenerateGreedyCmd(logger *zap.Logger) *cobra.Command {
	var (
		outDir         string
		maxDepth       int
		maxGenDepth    int
		targetCoverage float64
		maxFiles       int
		namespace      string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "greedy <schema.xsd>",
		Short: "Greedy set-cover snippet generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, err := loadSchema(ctx, args[0])
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}
			result, err := pathmodel.Enumerate(ctx, model, maxDepth)
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}
			rootName, err := rootElementName(model)
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}

			selection, err := greedy.Generate(model, result.Ground, result.Constraints, rootName, maxGenDepth, targetCoverage, maxFiles)
			if err != nil {
				return withExitCode(err, ExitGenerationErr)
			}

			ns, prefix := nsOverride(model, namespace)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return withExitCode(err, ExitUsageError)
			}
			written := make([]string, 0, len(selection.Snippets))
			var allOmitted []string
			for i, snip := range selection.Snippets {
				data, err := materialize.Serialize(snip.Root, ns, prefix)
				if err != nil {
					return withExitCode(err, ExitGenerationErr)
				}
				name := filepath.Join(outDir, fmt.Sprintf("greedy_generated_%03d.xml", i+1))
				if err := os.WriteFile(name, data, 0o644); err != nil {
					return withExitCode(err, ExitUsageError)
				}
				written = append(written, name)
				if omitted := selection.Omitted[snip.Key]; len(omitted) > 0 {
					logMaterializationWarning(logger, name, omitted)
					for _, p := range omitted {
						allOmitted = append(allOmitted, string(p))
					}
				}
			}

			logger.Info("greedy generation complete",
				zap.Int("files", len(selection.Snippets)),
				zap.Float64("coveragePct", selection.CoveragePct*100))

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(generateSummary{
					Files:       written,
					CoveragePct: selection.CoveragePct * 100,
					Omitted:     allOmitted,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d file(s), coverage %.2f%%\n", len(selection.Snippets), selection.CoveragePct*100)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().IntVar(&maxDepth, "maxDepth", 10, "maximum enumeration depth")
	cmd.Flags().IntVar(&maxGenDepth, "maxGenDepth", 10, "maximum snippet descent depth")
	cmd.Flags().Float64Var(&targetCoverage, "targetCoverage", 0.90, "stop once this fraction of paths is covered")
	cmd.Flags().IntVar(&maxFiles, "maxFiles", 10, "maximum number of output files")
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace override as prefix=uri")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit a JSON summary instead of plain text")
	return cmd
}

// generateSummary is the common --json shape across the three generate
// subcommands; fields unused by a given strategy are simply omitted.
type generateSummary struct {
	Files        []string `json:"files"`
	CoveragePct  float64  `json:"coveragePct,omitempty"`
	PairCoverage float64  `json:"pairCoverage,omitempty"`
	Dropped      int      `json:"dropped,omitempty"`
	Omitted      []string `json:"omitted,omitempty"`
	TimedOut     bool     `json:"timedOut,omitempty"`
}

func newGenerateSMTCmd(logger *zap.Logger) *cobra.Command {
	var (
		outDir         string
		maxDepth       int
		targetCoverage float64
		timeoutMs      int
		namespace      string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "smt <schema.xsd>",
		Short: "SMT-based maximal path generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, err := loadSchema(ctx, args[0])
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}
			result, err := pathmodel.Enumerate(ctx, model, maxDepth)
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}
			rootName, err := rootElementName(model)
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}

			node, solved, omitted, err := smt.Generate(ctx, model, result.Ground, result.Constraints, rootName, maxDepth, time.Duration(timeoutMs)*time.Millisecond)
			if err != nil {
				return withExitCode(err, ExitGenerationErr)
			}

			ns, prefix := nsOverride(model, namespace)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return withExitCode(err, ExitUsageError)
			}
			data, err := materialize.Serialize(node, ns, prefix)
			if err != nil {
				return withExitCode(err, ExitGenerationErr)
			}
			name := filepath.Join(outDir, "smt_generated_001.xml")
			if err := os.WriteFile(name, data, 0o644); err != nil {
				return withExitCode(err, ExitUsageError)
			}
			logMaterializationWarning(logger, name, omitted)
			if solved.TimedOut {
				logger.Warn("solver hit its time budget before exhausting every path; using the best assignment fixed so far",
					zap.Int("fixed", solved.FixedCount), zap.Int("total", solved.TotalCount))
			}

			coveragePct := 0.0
			if solved.TotalCount > 0 {
				coveragePct = 100 * float64(len(solved.Selected)) / float64(solved.TotalCount)
			}
			logger.Info("smt generation complete", zap.Float64("coveragePct", coveragePct))
			_ = targetCoverage // advisory only: the incremental solver always maximizes what it can within timeout

			if asJSON {
				omittedStr := make([]string, len(omitted))
				for i, p := range omitted {
					omittedStr[i] = string(p)
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(generateSummary{
					Files:       []string{name},
					CoveragePct: coveragePct,
					Omitted:     omittedStr,
					TimedOut:    solved.TimedOut,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote 1 file, coverage %.2f%%\n", coveragePct)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().IntVar(&maxDepth, "maxDepth", 10, "maximum enumeration depth")
	cmd.Flags().Float64Var(&targetCoverage, "targetCoverage", 0.95, "informational target; the solver always maximizes within budget")
	cmd.Flags().IntVar(&timeoutMs, "timeoutMs", 60000, "solver time budget in milliseconds")
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace override as prefix=uri")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit a JSON summary instead of plain text")
	return cmd
}

func newGeneratePairwiseCmd(logger *zap.Logger) *cobra.Command {
	var (
		outDir      string
		maxDepth    int
		maxPatterns int
		namespace   string
		randomSeed  int64
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "pairwise <schema.xsd>",
		Short: "Pairwise covering-array generation over optional items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, err := loadSchema(ctx, args[0])
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}
			result, err := pathmodel.Enumerate(ctx, model, maxDepth)
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}
			rootName, err := rootElementName(model)
			if err != nil {
				return withExitCode(err, ExitSchemaError)
			}

			run, err := pairwise.Run(ctx, model, result.Ground, result.Constraints, rootName, maxDepth, maxPatterns, randomSeed)
			if err != nil {
				return withExitCode(err, ExitGenerationErr)
			}
			if run.Dropped > 0 {
				logger.Warn("optional items truncated by soft cap", zap.Int("dropped", run.Dropped))
			}

			ns, prefix := nsOverride(model, namespace)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return withExitCode(err, ExitUsageError)
			}
			written := make([]string, 0, len(run.Trees))
			var allOmitted []string
			for i, tree := range run.Trees {
				data, err := materialize.Serialize(tree, ns, prefix)
				if err != nil {
					return withExitCode(err, ExitGenerationErr)
				}
				name := filepath.Join(outDir, fmt.Sprintf("pairwise_generated_%03d.xml", i+1))
				if err := os.WriteFile(name, data, 0o644); err != nil {
					return withExitCode(err, ExitUsageError)
				}
				written = append(written, name)
				if omitted := run.Omitted[i]; len(omitted) > 0 {
					logMaterializationWarning(logger, name, omitted)
					for _, p := range omitted {
						allOmitted = append(allOmitted, string(p))
					}
				}
			}

			logger.Info("pairwise generation complete",
				zap.Int("patterns", len(run.Trees)),
				zap.Float64("pairCoverage", run.Engine.PairCoverage*100))

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(generateSummary{
					Files:        written,
					PairCoverage: run.Engine.PairCoverage * 100,
					Dropped:      run.Dropped,
					Omitted:      allOmitted,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pattern(s), pair coverage %.2f%%\n", len(run.Trees), run.Engine.PairCoverage*100)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().IntVar(&maxDepth, "maxDepth", 10, "maximum enumeration depth")
	cmd.Flags().IntVar(&maxPatterns, "maxPatterns", 50, "maximum number of covering-array patterns")
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace override as prefix=uri")
	cmd.Flags().Int64Var(&randomSeed, "randomSeed", 42, "seed for the pairwise search RNG")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit a JSON summary instead of plain text")
	return cmd
}
