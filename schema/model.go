package schema

// ContentModel tags how a complex type's content is structured, per §3/§4.A.
type ContentModel int

const (
	ContentEmpty ContentModel = iota
	ContentSimple
	ContentElementOnly
	ContentMixed
)

func (c ContentModel) String() string {
	switch c {
	case ContentEmpty:
		return "empty"
	case ContentSimple:
		return "simpleContent"
	case ContentElementOnly:
		return "element-only"
	case ContentMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ParticleKind distinguishes the particle variants a content model's
// particle tree is built from (§9's "tagged variant, not inheritance"
// redesign).
type ParticleKind int

const (
	KindElement ParticleKind = iota
	KindSequence
	KindChoice
	KindAll
	KindWildcard
)

// Unbounded marks a particle's MaxOccurs as unbounded.
const Unbounded = -1

// Particle is one node of a complex type's content-model tree. Only the
// fields relevant to its Kind are populated.
type Particle struct {
	Kind ParticleKind

	// KindElement fields.
	Name      string // local name
	ElementNS string // element's own namespace (usually the schema's target namespace)
	TypeRef   QName
	MinOccurs int
	MaxOccurs int // Unbounded for "unbounded"

	// KindSequence / KindChoice / KindAll fields.
	Children []*Particle

	// KindWildcard fields.
	WildcardNamespace string
	ProcessContents   string // "strict" | "lax" | "skip"
}

// Attribute is a declared attribute, after attributeGroup flattening and
// extension-base inheritance have both already been applied.
type Attribute struct {
	Name        string
	TypeRef     QName
	Use         string // "required" | "optional" | "prohibited"; default "optional"
	Fixed       string
	Inline      *SimpleType // non-nil for an inline xs:simpleType restriction
}

// SimpleType carries restriction facets for a named or inline simple type.
type SimpleType struct {
	Name        QName // zero QName for inline/anonymous simple types
	Base        QName
	Enumeration []string // in declaration order; materializer picks [0]
}

// ComplexType is a named or anonymous complex type.
type ComplexType struct {
	Name       QName // zero QName for anonymous types attached to a particle
	Content    ContentModel
	Attributes []Attribute
	Particle   *Particle // root Sequence/Choice/All particle; nil for Empty/Simple
	SimpleBase QName     // base type reference, populated for ContentSimple

	// Recursive tags types that sit on an element-mediated cycle. The
	// enumerator and the materializer do not read it: both stop unfolding
	// on depth alone (maxDepth, and the emergency-descent cap).
	Recursive bool

	// Opaque marks a type synthesized for an import whose schemaLocation
	// could not be opened locally (§4.A). Treated as element-only with no
	// declared children; the materializer substitutes a hard-coded
	// fallback subtree for well-known opaque namespaces (§4.H).
	Opaque bool
}

// Model is the immutable, fully resolved schema: every named type is keyed
// by QName for O(1) lookup, substitution groups and opaque namespaces are
// recorded, and RootElements holds every element declared as a direct
// child of a <xs:schema> (the enumerator's traversal roots).
type Model struct {
	TargetNamespace string
	XSDPrefix       string // "xs" or "xsd", whichever the root document bound

	ComplexTypes map[QName]*ComplexType
	SimpleTypes  map[QName]*SimpleType
	RootElements []*Particle

	// Substitutes maps a substitution-group member to its head element
	// QName (§3.1). The enumerator treats every member as an additional
	// admissible child wherever the head could appear.
	Substitutes map[QName]QName

	// OpaqueNamespaces records namespaces that were imported but whose
	// schemaLocation could not be resolved locally.
	OpaqueNamespaces map[string]bool
}

// LookupComplexType resolves a type reference to its ComplexType, or nil if
// the reference does not name a complex type (it may be a built-in or
// simple type, or unresolved).
func (m *Model) LookupComplexType(ref QName) *ComplexType {
	if m == nil {
		return nil
	}
	return m.ComplexTypes[ref]
}

// LookupSimpleType resolves a type reference to its SimpleType, or nil.
func (m *Model) LookupSimpleType(ref QName) *SimpleType {
	if m == nil {
		return nil
	}
	return m.SimpleTypes[ref]
}

// IsBuiltin reports whether ref names an XML Schema built-in simple type.
func (m *Model) IsBuiltin(ref QName) bool {
	return ref.Namespace == XSDNamespace
}

// SubstitutionMembers returns every element QName whose substitutionGroup
// chain (directly or transitively) resolves to head.
func (m *Model) SubstitutionMembers(head QName) []QName {
	var out []QName
	for member, h := range m.Substitutes {
		seen := map[QName]bool{member: true}
		for !seen[h] {
			if h == head {
				out = append(out, member)
				break
			}
			seen[h] = true
			next, ok := m.Substitutes[h]
			if !ok {
				break
			}
			h = next
		}
	}
	return out
}
