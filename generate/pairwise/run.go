package pairwise

import (
	"context"

	"github.com/miwamasa/xsdcoverage/materialize"
	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

// RunResult bundles the covering array with one materialized tree per
// pattern, ready for the CLI driver to serialize. Omitted lists, per
// pattern index, the required descendants the materializer's
// emergency-descent cap dropped while building that pattern's tree.
type RunResult struct {
	Engine  Result
	Trees   []*materialize.Node
	Dropped int
	Omitted map[int][]pathmodel.Path
}

// choiceGroupIndices maps each ConstraintSet choice group onto indices
// into items, dropping alternatives the optional extractor didn't keep
// (required alternatives, or ones truncated by the soft cap).
func choiceGroupIndices(items []pathmodel.Path, constraints *pathmodel.ConstraintSet) [][]int {
	pos := make(map[pathmodel.Path]int, len(items))
	for i, p := range items {
		pos[p] = i
	}

	var groups [][]int
	for _, g := range constraints.ChoiceGroups {
		var members []int
		for _, alt := range g.Alternatives {
			if idx, ok := pos[alt]; ok {
				members = append(members, idx)
			}
		}
		if len(members) > 1 {
			groups = append(groups, members)
		}
	}
	return groups
}

// Run extracts the optional-item list, builds the pairwise covering array,
// and materializes one tree per pattern. ctx is checked between patterns
// so a cancelled run stops without materializing the remaining ones.
func Run(ctx context.Context, model *schema.Model, ground *pathmodel.GroundSet, constraints *pathmodel.ConstraintSet, rootName string, maxDepth int, maxPatterns int, seed int64) (RunResult, error) {
	items, dropped := ExtractOptional(ground, constraints)
	groups := choiceGroupIndices(items, constraints)
	engineResult := Generate(items, groups, maxPatterns, seed)

	trees := make([]*materialize.Node, 0, len(engineResult.Patterns))
	omitted := make(map[int][]pathmodel.Path)
	for i, pattern := range engineResult.Patterns {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		builder := materialize.NewBuilder(model, maxDepth, pattern.Selected)
		node, omittedPaths, err := builder.Build(rootName)
		if err != nil {
			return RunResult{}, err
		}
		if len(omittedPaths) > 0 {
			omitted[i] = omittedPaths
		}
		trees = append(trees, node)
	}

	return RunResult{Engine: engineResult, Trees: trees, Dropped: dropped, Omitted: omitted}, nil
}
