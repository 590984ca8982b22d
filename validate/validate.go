package validate

import (
	"fmt"

	"github.com/miwamasa/xsdcoverage/coverage"
	"github.com/miwamasa/xsdcoverage/schema"
)

// Document checks doc against model's particle tree by recursive descent,
// returning the first structural problem found (missing required
// element/attribute, an element not permitted at its position, or an
// unsatisfied choice). Types resolved as opaque are accepted unchecked
// (§4.H's opaque-namespace fallback policy extends to validation).
func Document(model *schema.Model, doc *coverage.Document) error {
	if doc == nil || doc.Root == nil {
		return fmt.Errorf("document has no root element")
	}
	for _, root := range model.RootElements {
		if root.Name == doc.Root.Name.Local {
			return validateElement(model, root, doc.Root, "/"+root.Name)
		}
	}
	return fmt.Errorf("/%s: not a declared root element", doc.Root.Name.Local)
}

func validateElement(model *schema.Model, p *schema.Particle, node *coverage.Node, path string) error {
	ct := model.LookupComplexType(p.TypeRef)
	if ct == nil {
		if model.LookupSimpleType(p.TypeRef) != nil || model.IsBuiltin(p.TypeRef) {
			if len(node.Children) > 0 {
				return fmt.Errorf("%s: simple-typed element has child elements", path)
			}
			return nil
		}
		return nil // unresolved type: nothing further can be checked
	}
	if ct.Opaque {
		return nil
	}

	for _, attr := range ct.Attributes {
		if attr.Use != "required" {
			continue
		}
		if !hasAttr(node, attr.Name) {
			return fmt.Errorf("%s: missing required attribute @%s", path, attr.Name)
		}
	}
	for _, a := range node.Attrs {
		if !declaresAttr(ct, a.Name.Local) {
			return fmt.Errorf("%s: attribute @%s is not declared", path, a.Name.Local)
		}
	}

	switch ct.Content {
	case schema.ContentEmpty:
		if len(node.Children) > 0 {
			return fmt.Errorf("%s: empty-content element has child elements", path)
		}
	case schema.ContentSimple:
		// no structural check beyond attributes already validated above
	case schema.ContentElementOnly, schema.ContentMixed:
		if ct.Particle == nil {
			break
		}
		cursor, err := validateParticle(model, ct.Particle, node.Children, 0, path)
		if err != nil {
			return err
		}
		if cursor < len(node.Children) {
			return fmt.Errorf("%s: unexpected element <%s>", path, node.Children[cursor].Name.Local)
		}
	}
	return nil
}

// validateParticle matches children[cursor:] against p in declared order,
// returning the advanced cursor. xs:all is validated the same as
// xs:sequence (order-independence is not enforced); this is a documented
// simplification, not a core generation invariant.
func validateParticle(model *schema.Model, p *schema.Particle, children []*coverage.Node, cursor int, path string) (int, error) {
	switch p.Kind {
	case schema.KindElement:
		matched := 0
		for cursor < len(children) && children[cursor].Name.Local == p.Name && (p.MaxOccurs == schema.Unbounded || matched < p.MaxOccurs) {
			if err := validateElement(model, p, children[cursor], fmt.Sprintf("%s/%s", path, p.Name)); err != nil {
				return cursor, err
			}
			cursor++
			matched++
		}
		if matched > 0 {
			return cursor, nil
		}
		if p.MinOccurs >= 1 {
			return cursor, fmt.Errorf("%s: missing required element <%s>", path, p.Name)
		}
		return cursor, nil

	case schema.KindSequence, schema.KindAll:
		for _, child := range p.Children {
			var err error
			cursor, err = validateParticle(model, child, children, cursor, path)
			if err != nil {
				return cursor, err
			}
		}
		return cursor, nil

	case schema.KindChoice:
		for _, child := range p.Children {
			if child.Kind == schema.KindElement && cursor < len(children) && children[cursor].Name.Local == child.Name {
				return validateParticle(model, child, children, cursor, path)
			}
		}
		if p.MinOccurs >= 1 {
			return cursor, fmt.Errorf("%s: no alternative of the choice is present", path)
		}
		return cursor, nil

	case schema.KindWildcard:
		if cursor < len(children) {
			return cursor + 1, nil
		}
		return cursor, nil
	}
	return cursor, nil
}

func hasAttr(node *coverage.Node, name string) bool {
	for _, a := range node.Attrs {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

func declaresAttr(ct *schema.ComplexType, name string) bool {
	for _, a := range ct.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}
