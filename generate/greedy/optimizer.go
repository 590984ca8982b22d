package greedy

import (
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/miwamasa/xsdcoverage/pathmodel"
)

// scoredSnippet pairs a snippet with its precomputed covered-id bitmap.
type scoredSnippet struct {
	snippet *Snippet
	covered *roaring.Bitmap
}

// Selection is the result of running the greedy set-cover optimizer.
// Omitted collects the required descendants the materializer's
// emergency-descent cap dropped while building the picked snippets, for
// the caller to log as a MaterializationWarning per snippet.
type Selection struct {
	Snippets       []*Snippet
	CoveragePct    float64
	AchievedTarget bool
	Omitted        map[string][]pathmodel.Path
}

// optimize repeatedly picks the snippet with the largest marginal gain
// against the still-uncovered universe, breaking ties by fewest total
// paths then by deterministic key, until coverage reaches targetCoverage,
// maxFiles snippets have been picked, or the next best gain is zero
// (§4.E Set-Cover Optimizer).
func optimize(ground *pathmodel.GroundSet, candidates []scoredSnippet, targetCoverage float64, maxFiles int) Selection {
	universe := ground.Universe()
	total := universe.GetCardinality()
	uncovered := universe.Clone()

	remaining := make([]scoredSnippet, len(candidates))
	copy(remaining, candidates)

	var picked []*Snippet
	var pickedTotal *roaring.Bitmap = roaring.New()

	for len(picked) < maxFiles && !uncovered.IsEmpty() && len(remaining) > 0 {
		bestIdx := -1
		var bestGain uint64
		for i, c := range remaining {
			gain := c.covered.AndCardinality(uncovered)
			if gain == 0 {
				continue
			}
			if bestIdx == -1 ||
				gain > bestGain ||
				(gain == bestGain && c.covered.GetCardinality() < remaining[bestIdx].covered.GetCardinality()) ||
				(gain == bestGain && c.covered.GetCardinality() == remaining[bestIdx].covered.GetCardinality() && c.snippet.Key < remaining[bestIdx].snippet.Key) {
				bestIdx = i
				bestGain = gain
			}
		}
		if bestIdx == -1 {
			break // no candidate covers anything new
		}

		chosen := remaining[bestIdx]
		picked = append(picked, chosen.snippet)
		pickedTotal.Or(chosen.covered)
		uncovered.AndNot(chosen.covered)

		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

		if total > 0 && float64(pickedTotal.GetCardinality())/float64(total) >= targetCoverage {
			break
		}
	}

	sort.Slice(picked, func(i, j int) bool { return picked[i].Key < picked[j].Key })

	pct := 0.0
	if total > 0 {
		pct = float64(pickedTotal.GetCardinality()) / float64(total)
	}
	omitted := make(map[string][]pathmodel.Path)
	for _, snip := range picked {
		if len(snip.Omitted) > 0 {
			omitted[snip.Key] = snip.Omitted
		}
	}
	return Selection{
		Snippets:       picked,
		CoveragePct:    pct,
		AchievedTarget: pct >= targetCoverage,
		Omitted:        omitted,
	}
}
