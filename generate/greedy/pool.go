package greedy

import (
	"runtime"
	"sort"
	"sync"

	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

// buildAll constructs one Snippet per candidate tuple using a
// GOMAXPROCS-sized worker pool. This fan-out/fan-in is small, fixed, and
// one-shot, so it uses stdlib sync primitives directly rather than pulling
// in a worker-pool library for it. Results are always returned sorted by
// their deterministic tuple key, so goroutine scheduling never affects
// downstream ordering.
func buildAll(model *schema.Model, constraints *pathmodel.ConstraintSet, rootName string, candidates []Params) ([]*Snippet, []error) {
	results := make([]*Snippet, len(candidates))
	errs := make([]error, len(candidates))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				snip, err := BuildSnippet(model, constraints, rootName, candidates[i])
				results[i] = snip
				errs[i] = err
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return candidates[order[a]].key() < candidates[order[b]].key() })

	sortedResults := make([]*Snippet, len(results))
	sortedErrs := make([]error, len(errs))
	for newIdx, oldIdx := range order {
		sortedResults[newIdx] = results[oldIdx]
		sortedErrs[newIdx] = errs[oldIdx]
	}
	return sortedResults, sortedErrs
}
