package smt

import (
	"sort"
	"strings"

	"github.com/miwamasa/xsdcoverage/pathmodel"
)

// varName maps a path to a deterministic, collision-free SMT variable
// name (§4.F): "/" -> "_", "@" -> "_AT_".
func varName(p pathmodel.Path) string {
	s := string(p)
	s = strings.ReplaceAll(s, "@", "_AT_")
	s = strings.ReplaceAll(s, "/", "_")
	return "v" + s
}

// sortedPaths returns ground's paths in ascending order, the iteration
// order the encoder and the incremental maximize loop both use so solver
// behavior is reproducible across runs.
func sortedPaths(ground *pathmodel.GroundSet) []pathmodel.Path {
	paths := append([]pathmodel.Path(nil), ground.Paths()...)
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}
