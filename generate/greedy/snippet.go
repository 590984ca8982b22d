package greedy

import (
	"fmt"

	"github.com/miwamasa/xsdcoverage/materialize"
	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

// Params is one point in the snippet generator's parameter space (§4.E).
type Params struct {
	TargetDepth     int
	IncludeOptional bool
	ChoiceIndex     int
}

func (p Params) key() string {
	return fmt.Sprintf("d%03d-o%d-c%03d", p.TargetDepth, boolToInt(p.IncludeOptional), p.ChoiceIndex)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// candidateParams enumerates every (targetDepth, includeOptional,
// choiceIndex) tuple to try, in a fixed order (depth ascending,
// includeOptional true before false, choiceIndex ascending). This is not
// key order; the built snippets are sorted by key after parallel
// construction, so scheduling never affects result order.
func candidateParams(maxGenDepth int, maxChoiceAlternatives int) []Params {
	if maxChoiceAlternatives < 1 {
		maxChoiceAlternatives = 1
	}
	var out []Params
	for depth := 0; depth <= maxGenDepth; depth++ {
		for _, includeOptional := range []bool{true, false} {
			for choiceIndex := 0; choiceIndex < maxChoiceAlternatives; choiceIndex++ {
				out = append(out, Params{TargetDepth: depth, IncludeOptional: includeOptional, ChoiceIndex: choiceIndex})
				if maxChoiceAlternatives == 1 {
					break
				}
			}
		}
	}
	return out
}

// maxChoiceBranchCount scans every complex type's particle tree for the
// widest xs:choice encountered, bounding how many distinct ChoiceIndex
// values are worth trying.
func maxChoiceBranchCount(model *schema.Model) int {
	max := 1
	var walk func(p *schema.Particle)
	walk = func(p *schema.Particle) {
		if p == nil {
			return
		}
		if p.Kind == schema.KindChoice && len(p.Children) > max {
			max = len(p.Children)
		}
		for _, c := range p.Children {
			walk(c)
		}
	}
	for _, ct := range model.ComplexTypes {
		walk(ct.Particle)
	}
	return max
}

// Snippet is one built candidate: its tree, the parameters that produced
// it, and a stable label for output filenames/ordering. Omitted lists any
// required descendants the materializer's emergency-descent cap dropped
// while building this candidate.
type Snippet struct {
	Params  Params
	Root    *materialize.Node
	Key     string
	Omitted []pathmodel.Path
}

// BuildSnippet constructs one snippet for rootName under params by driving
// materialize.Builder (component H) with a Selected predicate derived from
// params, the same way generate/smt.Generate and generate/pairwise.Run
// drive it from their own selections (§2, §9) -- so depth, opaque-type,
// and emergency-descent handling can never diverge between strategies.
func BuildSnippet(model *schema.Model, constraints *pathmodel.ConstraintSet, rootName string, params Params) (*Snippet, error) {
	builder := materialize.NewBuilder(model, params.TargetDepth, paramsSelected(constraints, params))
	node, omitted, err := builder.Build(rootName)
	if err != nil {
		return nil, fmt.Errorf("greedy: %w", err)
	}
	return &Snippet{Params: params, Root: node, Key: params.key(), Omitted: omitted}, nil
}

// paramsSelected turns one candidate's parameters into a
// materialize.Selected predicate: every xs:choice resolves to the
// ChoiceIndex-th member of its group (mod the group's size), and every
// other optional element/attribute follows IncludeOptional.
func paramsSelected(constraints *pathmodel.ConstraintSet, params Params) materialize.Selected {
	chosen := make(map[pathmodel.Path]bool)
	inChoice := make(map[pathmodel.Path]bool)
	for _, g := range constraints.ChoiceGroups {
		if len(g.Alternatives) == 0 {
			continue
		}
		for _, alt := range g.Alternatives {
			inChoice[alt] = true
		}
		chosen[g.Alternatives[params.ChoiceIndex%len(g.Alternatives)]] = true
	}
	return func(p pathmodel.Path) bool {
		if inChoice[p] {
			return chosen[p]
		}
		return params.IncludeOptional
	}
}
