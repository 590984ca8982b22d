package smt

import (
	"context"
	"time"

	"github.com/miwamasa/xsdcoverage/materialize"
	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

// Generate runs the SMT strategy end to end for rootName: builds the
// clause spec, solves it, and materializes the resulting assignment into
// one XML tree. Side-effect-free; callers serialize/write the tree. The
// third return value lists required descendants the materializer's
// emergency-descent cap had to omit, for the caller to log.
func Generate(ctx context.Context, model *schema.Model, ground *pathmodel.GroundSet, constraints *pathmodel.ConstraintSet, rootName string, maxDepth int, timeout time.Duration) (*materialize.Node, *Result, []pathmodel.Path, error) {
	root := pathmodel.ElementPath(rootName)
	spec := BuildClauseSpec(ground, constraints, root, maxDepth)

	result, err := Solve(ctx, ground, spec, timeout)
	if err != nil {
		return nil, nil, nil, err
	}

	builder := materialize.NewBuilder(model, maxDepth, func(p pathmodel.Path) bool {
		return result.Selected[p]
	})
	node, omitted, err := builder.Build(rootName)
	if err != nil {
		return nil, nil, nil, err
	}
	return node, result, omitted, nil
}
