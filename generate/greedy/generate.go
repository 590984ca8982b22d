package greedy

import (
	"fmt"

	"github.com/miwamasa/xsdcoverage/materialize"
	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

// Generate builds the full candidate snippet family for rootName up to
// maxGenDepth, scores each against ground, and runs the greedy set-cover
// optimizer. It is side-effect-free: callers (the CLI driver) are
// responsible for serializing Selection.Snippets to files.
func Generate(model *schema.Model, ground *pathmodel.GroundSet, constraints *pathmodel.ConstraintSet, rootName string, maxGenDepth int, targetCoverage float64, maxFiles int) (Selection, error) {
	if maxFiles < 1 {
		return Selection{}, fmt.Errorf("greedy: maxFiles must be >= 1, got %d", maxFiles)
	}

	branches := maxChoiceBranchCount(model)
	candidates := candidateParams(maxGenDepth, branches)

	snippets, errs := buildAll(model, constraints, rootName, candidates)
	var scored []scoredSnippet
	for i, snip := range snippets {
		if errs[i] != nil {
			return Selection{}, errs[i]
		}
		if snip == nil {
			continue
		}
		covered := materialize.CoveredPaths(snip.Root, rootName, ground)
		scored = append(scored, scoredSnippet{snippet: snip, covered: covered})
	}

	return optimize(ground, scored, targetCoverage, maxFiles), nil
}
