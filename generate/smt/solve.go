package smt

import (
	"context"
	"time"

	"github.com/mitchellh/go-z3"

	xsderrors "github.com/miwamasa/xsdcoverage/errors"
	"github.com/miwamasa/xsdcoverage/pathmodel"
)

// Result is the decoded model from a successful Solve: the set of paths
// assigned true. TimedOut reports whether the fixing loop was cut short by
// the deadline or goCtx rather than exhausting every path on its own --
// the assignment is still usable, but callers should surface this as a
// GenerationErrorKind Timeout worth logging rather than a clean run.
type Result struct {
	Selected   map[pathmodel.Path]bool
	FixedCount int
	TotalCount int
	TimedOut   bool
}

// Solve encodes spec's hard clauses over go-z3, then greedily fixes as
// many path variables to true as the incremental solver allows within
// timeout, maximizing the soft "most paths present" objective (§4.F). The
// fixing loop also checks goCtx once per candidate path, so a cancelled
// run stops at the next path boundary rather than riding out the timeout.
func Solve(goCtx context.Context, ground *pathmodel.GroundSet, spec ClauseSpec, timeout time.Duration) (*Result, error) {
	config := z3.NewConfig()
	zctx := z3.NewContext(config)
	config.Close()
	defer zctx.Close()

	boolSort := zctx.BoolSort()
	varTab := make(map[pathmodel.Path]*z3.AST, ground.Len())
	for _, p := range sortedPaths(ground) {
		varTab[p] = zctx.Const(zctx.Symbol(varName(p)), boolSort)
	}

	solver := zctx.NewSolver()
	defer solver.Close()

	assertImplication := func(from, to pathmodel.Path) {
		solver.Assert(varTab[from].Not().Or(varTab[to]))
	}

	for _, im := range spec.Hierarchy {
		assertImplication(im.From, im.To)
	}
	for _, im := range spec.Required {
		assertImplication(im.From, im.To)
	}
	for _, c := range spec.Choices {
		if len(c.Alternatives) == 0 {
			continue
		}
		disjunction := varTab[c.Alternatives[0]]
		for _, alt := range c.Alternatives[1:] {
			disjunction = disjunction.Or(varTab[alt])
		}
		solver.Assert(varTab[c.Parent].Not().Or(disjunction))

		for i := 0; i < len(c.Alternatives); i++ {
			for j := i + 1; j < len(c.Alternatives); j++ {
				solver.Assert(varTab[c.Alternatives[i]].Not().Or(varTab[c.Alternatives[j]].Not()))
			}
		}
	}
	for _, p := range spec.Forbidden {
		solver.Assert(varTab[p].Not())
	}
	solver.Assert(varTab[spec.Root])

	if solver.Check() != z3.True {
		return nil, &xsderrors.GenerationError{Kind: xsderrors.Infeasible}
	}

	deadline := time.Now().Add(timeout)
	fixed := 0
	timedOut := false
	for _, p := range sortedPaths(ground) {
		if time.Now().After(deadline) {
			timedOut = true
			break
		}
		if err := goCtx.Err(); err != nil {
			timedOut = true
			break
		}
		v := varTab[p]
		solver.Push()
		solver.Assert(v)
		if solver.Check() == z3.True {
			fixed++
			continue // keep the frame: this assignment is now permanent
		}
		solver.Pop(1)
	}

	if timedOut && fixed == 0 {
		return nil, &xsderrors.GenerationError{Kind: xsderrors.Timeout}
	}

	model := solver.Model()
	assignments := model.Assignments()
	model.Close()

	result := &Result{Selected: make(map[pathmodel.Path]bool, len(assignments)), FixedCount: fixed, TotalCount: ground.Len(), TimedOut: timedOut}
	for _, p := range sortedPaths(ground) {
		if val, ok := assignments[varName(p)]; ok && val == "true" {
			result.Selected[p] = true
		}
	}
	return result, nil
}
