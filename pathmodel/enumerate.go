package pathmodel

import (
	"context"
	"fmt"
	"sort"

	xsderrors "github.com/miwamasa/xsdcoverage/errors"
	"github.com/miwamasa/xsdcoverage/schema"
)

// Result bundles the ground set and constraint set produced by one
// Enumerate call; every other component consumes this pair together.
type Result struct {
	Ground      *GroundSet
	Constraints *ConstraintSet
}

// visitKey is the cycle guard from §4.B: a (path, type, depth) triple that
// has already been entered is not re-entered. Each unfolding of a recursive
// type extends the path, so the guard never fires on a cycle; it only skips
// a second entry of the same path with the same type (e.g. an element name
// declared twice in one content model). Recursion stops at maxDepth.
type visitKey struct {
	path  Path
	typ   schema.QName
	depth int
}

type walker struct {
	ctx         context.Context
	model       *schema.Model
	maxDepth    int
	discovered  map[Path]bool
	constraints *ConstraintSet
	visited     map[visitKey]bool
	err         error
}

// Enumerate walks every root element of model up to maxDepth levels deep,
// producing the ground set of reachable element/attribute paths and the
// parent/required/choice relationships over them. maxDepth must be >= 0; a
// depth of 0 still includes each root element's own path (§4.B boundary
// behavior) but recurses into no content or attributes at all. ctx is
// checked once per distinct (path, type, depth) entered, so a cancelled
// run on a pathologically wide or deep schema stops promptly.
func Enumerate(ctx context.Context, model *schema.Model, maxDepth int) (*Result, error) {
	if model == nil {
		return nil, fmt.Errorf("pathmodel: nil model")
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("pathmodel: maxDepth must be >= 0, got %d", maxDepth)
	}

	w := &walker{
		ctx:         ctx,
		model:       model,
		maxDepth:    maxDepth,
		discovered:  make(map[Path]bool),
		constraints: newConstraintSet(),
		visited:     make(map[visitKey]bool),
	}

	roots := append([]*schema.Particle(nil), model.RootElements...)
	sort.Slice(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })

	for _, root := range roots {
		path := ElementPath(root.Name)
		w.discovered[path] = true
		if w.err != nil {
			return nil, w.err
		}
		if path.Depth()+1 <= maxDepth {
			w.recurseIntoType(path, root.TypeRef)
			if w.err != nil {
				return nil, w.err
			}
		}
	}

	return &Result{Ground: newGroundSet(w.discovered), Constraints: w.constraints}, nil
}

// recurseIntoType enters the content model of typ as reached via path,
// emitting its attribute paths and walking its particle tree.
func (w *walker) recurseIntoType(path Path, typ schema.QName) {
	if w.err != nil {
		return
	}
	key := visitKey{path: path, typ: typ, depth: path.Depth()}
	if w.visited[key] {
		return
	}
	w.visited[key] = true

	if err := w.ctx.Err(); err != nil {
		w.err = err
		return
	}

	ct := w.model.LookupComplexType(typ)
	if ct == nil {
		if w.model.LookupSimpleType(typ) != nil || w.model.IsBuiltin(typ) {
			return // leaf: no attributes, no children
		}
		w.err = &xsderrors.EnumerationError{
			Path:   string(path),
			Reason: fmt.Sprintf("element references undefined type %s", typ),
		}
		return
	}

	for _, attr := range ct.Attributes {
		attrPath := path.AttrPath(attr.Name)
		w.discovered[attrPath] = true
		w.constraints.addParent(attrPath, path)
		if attr.Use == "required" {
			w.constraints.addRequired(path, attrPath)
		}
	}

	if ct.Particle != nil {
		w.visitParticle(ct.Particle, path, true)
	}
}

// visitParticle walks one particle of the content model owned by
// ownerElementPath. requiredGate carries whether every ancestor
// sequence/all wrapper back to the owning element was itself mandatory
// (minOccurs >= 1); a false gate suppresses required-pair recording for
// any element nested underneath, per §4.C's optional-sequence note, even
// if that element's own minOccurs is >= 1.
func (w *walker) visitParticle(p *schema.Particle, ownerElementPath Path, requiredGate bool) {
	if w.err != nil {
		return
	}
	switch p.Kind {
	case schema.KindElement:
		w.visitElement(p, ownerElementPath, requiredGate)

	case schema.KindSequence, schema.KindAll:
		childGate := requiredGate && p.MinOccurs >= 1
		for _, child := range p.Children {
			w.visitParticle(child, ownerElementPath, childGate)
		}

	case schema.KindChoice:
		var alternatives []Path
		for _, child := range p.Children {
			if child.Kind == schema.KindElement {
				alternatives = append(alternatives, ownerElementPath.Child(child.Name))
			}
		}
		w.constraints.addChoiceGroup(ownerElementPath, alternatives)
		// Exactly one alternative is ever present, so no individual
		// alternative is unconditionally required relative to the parent.
		for _, child := range p.Children {
			w.visitParticle(child, ownerElementPath, false)
		}

	case schema.KindWildcard:
		wildcardPath := ownerElementPath.Child("*")
		w.discovered[wildcardPath] = true
		w.constraints.addParent(wildcardPath, ownerElementPath)
	}
}

func (w *walker) visitElement(p *schema.Particle, ownerElementPath Path, requiredGate bool) {
	childPath := ownerElementPath.Child(p.Name)
	w.discovered[childPath] = true
	w.constraints.addParent(childPath, ownerElementPath)

	headQName := schema.QName{Namespace: p.ElementNS, Local: p.Name}
	members := w.model.SubstitutionMembers(headQName)
	if len(members) > 0 {
		alternatives := []Path{childPath}
		for _, m := range members {
			memberPath := ownerElementPath.Child(m.Local)
			w.discovered[memberPath] = true
			w.constraints.addParent(memberPath, ownerElementPath)
			alternatives = append(alternatives, memberPath)
			if childPath.Depth()+1 <= w.maxDepth {
				w.recurseIntoType(memberPath, p.TypeRef)
			}
		}
		w.constraints.addChoiceGroup(ownerElementPath, alternatives)
	} else if requiredGate && p.MinOccurs >= 1 {
		w.constraints.addRequired(ownerElementPath, childPath)
	}

	if childPath.Depth()+1 <= w.maxDepth {
		w.recurseIntoType(childPath, p.TypeRef)
	}
}
