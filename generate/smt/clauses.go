package smt

import (
	"sort"

	"github.com/miwamasa/xsdcoverage/pathmodel"
)

// Implication is a hard clause asserting v_From -> v_To.
type Implication struct {
	From pathmodel.Path
	To   pathmodel.Path
}

// ChoiceClause captures one choice_groups tuple's hard clauses: the parent
// implies at least one alternative, and every pair of alternatives is
// mutually exclusive.
type ChoiceClause struct {
	Parent       pathmodel.Path
	Alternatives []pathmodel.Path
}

// ClauseSpec is the pure, z3-free description of every hard clause for one
// generation run, built deterministically from a GroundSet and
// ConstraintSet so it can be unit tested without linking z3.
type ClauseSpec struct {
	Root pathmodel.Path

	Hierarchy []Implication    // per parent_of entry: v_child -> v_parent
	Required  []Implication    // per required entry: v_parent -> v_requiredChild
	Choices   []ChoiceClause
	Forbidden []pathmodel.Path // paths whose depth exceeds maxDepth: v_p forced false
}

// BuildClauseSpec derives the hard-clause structure for root, deterministic
// regardless of map iteration order (§4.F).
func BuildClauseSpec(ground *pathmodel.GroundSet, constraints *pathmodel.ConstraintSet, root pathmodel.Path, maxDepth int) ClauseSpec {
	spec := ClauseSpec{Root: root}

	paths := sortedPaths(ground)

	for _, child := range paths {
		if parent, ok := constraints.Parent(child); ok {
			spec.Hierarchy = append(spec.Hierarchy, Implication{From: child, To: parent})
		}
		if child.Depth() > maxDepth {
			spec.Forbidden = append(spec.Forbidden, child)
		}
	}

	for _, parent := range paths {
		required := constraints.RequiredChildren(parent)
		if len(required) == 0 {
			continue
		}
		sortedRequired := append([]pathmodel.Path(nil), required...)
		sort.Slice(sortedRequired, func(i, j int) bool { return sortedRequired[i] < sortedRequired[j] })
		for _, r := range sortedRequired {
			spec.Required = append(spec.Required, Implication{From: parent, To: r})
		}
	}

	groups := append([]pathmodel.ChoiceGroup(nil), constraints.ChoiceGroups...)
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Parent != groups[j].Parent {
			return groups[i].Parent < groups[j].Parent
		}
		return len(groups[i].Alternatives) < len(groups[j].Alternatives)
	})
	for _, g := range groups {
		alts := append([]pathmodel.Path(nil), g.Alternatives...)
		sort.Slice(alts, func(i, j int) bool { return alts[i] < alts[j] })
		spec.Choices = append(spec.Choices, ChoiceClause{Parent: g.Parent, Alternatives: alts})
	}

	return spec
}
