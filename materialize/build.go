package materialize

import (
	"fmt"

	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

// emergencyDescentLevels bounds how far construction continues past
// maxDepth for chains of required content on recursive types (§4.H rule 6).
const emergencyDescentLevels = 2

// Selected reports whether a path was chosen for inclusion, by the greedy
// optimizer, the SMT model, or a pairwise TestPattern. Required content is
// always included regardless of what Selected reports.
type Selected func(p pathmodel.Path) bool

// Builder constructs schema-valid XML trees from a compiled Model.
type Builder struct {
	model    *schema.Model
	maxDepth int
	selected Selected
	omitted  []pathmodel.Path
}

// NewBuilder constructs a Builder. maxDepth must match the bound used to
// produce the GroundSet that selected was computed against.
func NewBuilder(model *schema.Model, maxDepth int, selected Selected) *Builder {
	return &Builder{model: model, maxDepth: maxDepth, selected: selected}
}

// Build materializes the named root element (matched against
// Model.RootElements) into a tree. The second return value lists every
// required descendant that the emergency-descent cap forced the builder
// to omit -- empty on the common path where the cap was never hit.
func (b *Builder) Build(rootName string) (*Node, []pathmodel.Path, error) {
	b.omitted = nil
	for _, root := range b.model.RootElements {
		if root.Name == rootName {
			node, err := b.buildElement(root, pathmodel.ElementPath(rootName), 1)
			return node, b.omitted, err
		}
	}
	return nil, nil, fmt.Errorf("materialize: no root element named %q", rootName)
}

// requiredChildPaths lists the element paths that p would have forced into
// the tree directly beneath ownerPath, had the builder descended into it;
// used only to name what the emergency-descent cap dropped.
func requiredChildPaths(p *schema.Particle, ownerPath pathmodel.Path, requiredGate bool) []pathmodel.Path {
	switch p.Kind {
	case schema.KindElement:
		if requiredGate && p.MinOccurs >= 1 {
			return []pathmodel.Path{ownerPath.Child(p.Name)}
		}
		return nil
	case schema.KindSequence, schema.KindAll:
		childGate := requiredGate && p.MinOccurs >= 1
		var out []pathmodel.Path
		for _, child := range p.Children {
			out = append(out, requiredChildPaths(child, ownerPath, childGate)...)
		}
		return out
	default:
		// A choice never unconditionally requires one specific alternative,
		// and a wildcard names no concrete path.
		return nil
	}
}

func (b *Builder) buildElement(p *schema.Particle, path pathmodel.Path, depth int) (*Node, error) {
	node := newNode(p.Name)

	ct := b.model.LookupComplexType(p.TypeRef)
	if ct == nil && (b.model.LookupSimpleType(p.TypeRef) != nil || b.model.IsBuiltin(p.TypeRef)) {
		node.Text = LeafValue(b.model, p.TypeRef, p.Name)
		return node, nil
	}
	if ct == nil || ct.Opaque {
		local := p.TypeRef.Local
		if ct != nil {
			local = ct.Name.Local
		}
		if fallback, ok := OpaqueFallback(local); ok {
			fallback.Local = p.Name
			return fallback, nil
		}
		return node, nil // unresolved/opaque with no known fallback: empty element
	}

	for _, attr := range ct.Attributes {
		if attr.Use == "prohibited" {
			continue
		}
		attrPath := path.AttrPath(attr.Name)
		if attr.Use != "required" && !b.selected(attrPath) {
			continue
		}
		if attr.Fixed != "" {
			node.addAttr(attr.Name, attr.Fixed)
			continue
		}
		if attr.Inline != nil && len(attr.Inline.Enumeration) > 0 {
			node.addAttr(attr.Name, attr.Inline.Enumeration[0])
			continue
		}
		typ := attr.TypeRef
		if attr.Inline != nil {
			typ = attr.Inline.Base
		}
		node.addAttr(attr.Name, LeafValue(b.model, typ, attr.Name))
	}

	switch ct.Content {
	case schema.ContentEmpty:
		// no text, no children
	case schema.ContentSimple:
		typ := ct.SimpleBase
		if b.model.LookupSimpleType(p.TypeRef) != nil {
			typ = p.TypeRef // anonymous simple type: keep its enumeration
		}
		node.Text = LeafValue(b.model, typ, p.Name)
	case schema.ContentElementOnly, schema.ContentMixed:
		if depth > b.maxDepth+emergencyDescentLevels {
			if ct.Particle != nil {
				b.omitted = append(b.omitted, requiredChildPaths(ct.Particle, path, true)...)
			}
			break
		}
		if ct.Particle != nil {
			children, err := b.buildParticle(ct.Particle, path, depth, true)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, children...)
		}
	}

	return node, nil
}

// buildParticle returns the child nodes contributed by one particle of the
// content model owned by ownerPath at depth (the owning element's depth).
// requiredGate mirrors pathmodel's: false once any enclosing optional
// sequence/all was not itself triggered, suppressing forced inclusion of
// nested minOccurs>=1 elements.
func (b *Builder) buildParticle(p *schema.Particle, ownerPath pathmodel.Path, depth int, requiredGate bool) ([]*Node, error) {
	switch p.Kind {
	case schema.KindElement:
		return b.buildElementParticle(p, ownerPath, depth, requiredGate)

	case schema.KindSequence, schema.KindAll:
		childGate := requiredGate && p.MinOccurs >= 1
		var out []*Node
		for _, child := range p.Children {
			nodes, err := b.buildParticle(child, ownerPath, depth, childGate)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil

	case schema.KindChoice:
		return b.buildChoice(p, ownerPath, depth)

	case schema.KindWildcard:
		// No fixed element name to materialize for a generic wildcard;
		// only the named opaque-namespace fallback produces concrete
		// content (§4.H).
		return nil, nil
	}
	return nil, nil
}

func (b *Builder) buildElementParticle(p *schema.Particle, ownerPath pathmodel.Path, depth int, requiredGate bool) ([]*Node, error) {
	childPath := ownerPath.Child(p.Name)
	required := requiredGate && p.MinOccurs >= 1
	if !required && !b.selected(childPath) {
		return nil, nil
	}
	if depth+1 > b.maxDepth && !required {
		return nil, nil
	}
	node, err := b.buildElement(p, childPath, depth+1)
	if err != nil {
		return nil, err
	}
	return []*Node{node}, nil
}

func (b *Builder) buildChoice(p *schema.Particle, ownerPath pathmodel.Path, depth int) ([]*Node, error) {
	if len(p.Children) == 0 {
		return nil, nil
	}
	chosen := p.Children[0]
	for _, child := range p.Children {
		if child.Kind == schema.KindElement && b.selected(ownerPath.Child(child.Name)) {
			chosen = child
			break
		}
	}
	return b.buildParticle(chosen, ownerPath, depth, true)
}
