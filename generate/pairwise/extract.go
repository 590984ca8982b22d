package pairwise

import (
	"sort"

	"github.com/miwamasa/xsdcoverage/pathmodel"
)

// defaultSoftCap and defaultTopK implement §4.G's truncation rule: beyond
// softCap optional items, keep only the topK shallowest (ties broken
// lexicographically).
const (
	defaultSoftCap = 1000
	defaultTopK    = 300
)

// ExtractOptional lists every optional path reachable in ground: an
// element or attribute path that is not unconditionally required by its
// parent. This already subsumes choice-branch alternatives (§4.G rule 3),
// since the path enumerator never records a choice alternative as
// required of its owning element (pathmodel.Enumerate always clears the
// required-gate inside a Choice).
//
// Returns the (possibly truncated) item list and the number of items
// dropped by the soft cap, so callers can log what was omitted rather
// than silently under-covering.
func ExtractOptional(ground *pathmodel.GroundSet, constraints *pathmodel.ConstraintSet) (items []pathmodel.Path, dropped int) {
	requiredSet := make(map[pathmodel.Path]bool)
	for _, children := range constraints.Required {
		for _, c := range children {
			requiredSet[c] = true
		}
	}

	for _, p := range ground.Paths() {
		if requiredSet[p] {
			continue
		}
		if _, hasParent := constraints.Parent(p); !hasParent && !p.IsAttribute() {
			continue // true schema root: always present, never optional
		}
		items = append(items, p)
	}

	sort.Slice(items, func(i, j int) bool {
		di, dj := items[i].Depth(), items[j].Depth()
		if di != dj {
			return di < dj
		}
		return items[i] < items[j]
	})

	if len(items) > defaultSoftCap {
		dropped = len(items) - defaultTopK
		items = items[:defaultTopK]
	}
	return items, dropped
}
