package pairwise

import (
	"math/rand"

	"github.com/RoaringBitmap/roaring"

	"github.com/miwamasa/xsdcoverage/pathmodel"
)

// candidatesPerRound is S in §4.G's pseudocode: how many random candidates
// are sampled before picking the best of the round.
const candidatesPerRound = 100

// TestPattern is one row of the covering array: a boolean assignment over
// Items, positionally aligned.
type TestPattern struct {
	Items  []pathmodel.Path
	Values []bool
}

// Selected returns a materialize.Selected-compatible predicate over this
// pattern's assignment.
func (tp TestPattern) Selected(p pathmodel.Path) bool {
	for i, item := range tp.Items {
		if item == p {
			return tp.Values[i]
		}
	}
	return false
}

// Result is the output of the pairwise engine: the covering array plus
// the fraction of all (i,j,vi,vj) pairs it covers.
type Result struct {
	Patterns      []TestPattern
	PairCoverage  float64
	TotalPairs    int
	CoveredPairs  int
}

// encode maps one (i, j, vi, vj) tuple, i < j, to a dense id over n items.
func encode(i, j int, vi, vj bool, n int) uint32 {
	return uint32(i*4*n + j*4 + b2i(vi)*2 + b2i(vj))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// groupIndex maps each item index to the id of the choice group it
// belongs to (if any), so the engine can tell which (true, true) pairs
// are structurally unreachable: a choice never presents two alternatives
// at once, so such pairs are excluded from the coverage target rather
// than left permanently uncovered.
func groupIndex(groups [][]int) map[int]int {
	gi := make(map[int]int)
	for g, members := range groups {
		for _, idx := range members {
			gi[idx] = g
		}
	}
	return gi
}

func sameGroup(gi map[int]int, i, j int) bool {
	gi1, ok1 := gi[i]
	if !ok1 {
		return false
	}
	gi2, ok2 := gi[j]
	return ok2 && gi1 == gi2
}

// adjustForChoiceConstraints mirrors the original generator's choice
// post-processing: if a candidate sets more than one alternative of the
// same choice group true, keep only one (chosen by rng) and clear the
// rest, since the materializer can only ever realize one alternative per
// xs:choice regardless of what the covering array asked for.
func adjustForChoiceConstraints(cand []bool, groups [][]int, rng *rand.Rand) {
	for _, members := range groups {
		var trueIdx []int
		for _, idx := range members {
			if cand[idx] {
				trueIdx = append(trueIdx, idx)
			}
		}
		if len(trueIdx) <= 1 {
			continue
		}
		keep := trueIdx[rng.Intn(len(trueIdx))]
		for _, idx := range trueIdx {
			if idx != keep {
				cand[idx] = false
			}
		}
	}
}

// Generate builds a pairwise covering array over items using a seeded RNG
// (never the global math/rand generator, so concurrent runs with
// different seeds never race, §4.G/§5). groups lists choice alternatives
// by item index: within one group, at most one item is ever true in a
// materialized pattern, so (true, true) pairs inside a group are excluded
// from the coverage target instead of being counted as permanently
// uncovered. Stops once every (reachable) pair is covered or maxPatterns
// is reached.
func Generate(items []pathmodel.Path, groups [][]int, maxPatterns int, seed int64) Result {
	n := len(items)
	if n == 0 {
		// No optional items: the all-required baseline is itself a single
		// pattern that trivially covers every (vacuous) pair.
		return Result{Patterns: []TestPattern{{}}, PairCoverage: 1.0}
	}
	if maxPatterns < 1 {
		return Result{}
	}

	rng := rand.New(rand.NewSource(seed))
	gi := groupIndex(groups)

	uncovered := roaring.New()
	total := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			grouped := sameGroup(gi, i, j)
			for _, vi := range []bool{false, true} {
				for _, vj := range []bool{false, true} {
					if grouped && vi && vj {
						continue // unreachable: a choice never selects two alternatives at once
					}
					uncovered.Add(encode(i, j, vi, vj, n))
					total++
				}
			}
		}
	}

	var patterns []TestPattern
	for !uncovered.IsEmpty() && len(patterns) < maxPatterns {
		var best []bool
		var bestSatisfied []uint32
		bestGain := 0

		for s := 0; s < candidatesPerRound; s++ {
			cand := make([]bool, n)
			for i := range cand {
				cand[i] = rng.Intn(2) == 1
			}
			adjustForChoiceConstraints(cand, groups, rng)

			var satisfied []uint32
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					id := encode(i, j, cand[i], cand[j], n)
					if uncovered.Contains(id) {
						satisfied = append(satisfied, id)
					}
				}
			}
			if len(satisfied) > bestGain {
				bestGain = len(satisfied)
				best = cand
				bestSatisfied = satisfied
			}
		}

		if bestGain == 0 {
			break
		}
		patterns = append(patterns, TestPattern{Items: items, Values: best})
		for _, id := range bestSatisfied {
			uncovered.Remove(id)
		}
	}

	covered := total - int(uncovered.GetCardinality())
	coverage := 0.0
	if total > 0 {
		coverage = float64(covered) / float64(total)
	}
	return Result{Patterns: patterns, PairCoverage: coverage, TotalPairs: total, CoveredPairs: covered}
}
