package pathmodel

import (
	"context"
	"testing"
	"testing/fstest"

	"pgregory.net/rapid"

	"github.com/miwamasa/xsdcoverage/schema"
)

// loadModelRapid mirrors enumerate_test.go's loadModel but reports failures
// through rapid's own *rapid.T rather than *testing.T, since rapid.Check's
// property function only ever receives the former.
func loadModelRapid(rt *rapid.T, xsd string) *schema.Model {
	mapfs := fstest.MapFS{"schema.xsd": &fstest.MapFile{Data: []byte(xsd)}}
	model, err := schema.NewLoader(mapfs).Load(context.Background(), "schema.xsd")
	if err != nil {
		rt.Fatalf("failed loading generated schema: %v", err)
	}
	return model
}

// genFieldNames produces a small, schema-safe pool of element names so
// generated schemas stay well-formed XML without a full XSD generator.
var genFieldNames = []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}

// buildRandomSequenceSchema builds an XSD with a single root element whose
// content is a sequence of 1-5 leaf string elements, each independently
// optional, named by the first n entries of genFieldNames in order.
func buildRandomSequenceSchema(t *rapid.T) (xsd string, fieldCount int, requiredFlags []bool) {
	n := rapid.IntRange(1, len(genFieldNames)).Draw(t, "fieldCount")
	var fields string
	required := make([]bool, n)
	for i := 0; i < n; i++ {
		isRequired := rapid.Bool().Draw(t, "required")
		required[i] = isRequired
		minOccurs := "0"
		if isRequired {
			minOccurs = "1"
		}
		fields += `<xs:element name="` + genFieldNames[i] + `" type="xs:string" minOccurs="` + minOccurs + `"/>`
	}
	xsd = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:element name="Root">
        <xs:complexType>
            <xs:sequence>` + fields + `</xs:sequence>
        </xs:complexType>
    </xs:element>
</xs:schema>`
	return xsd, n, required
}

// TestEnumerateIsDeterministic checks that running Enumerate twice over the
// same model produces the same ground set, in the same id order -- the
// dense id space must depend only on the sorted path set, never on
// traversal or map-iteration order.
func TestEnumerateIsDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xsd, _, _ := buildRandomSequenceSchema(rt)
		model := loadModelRapid(rt, xsd)

		r1, err1 := Enumerate(context.Background(), model, 3)
		r2, err2 := Enumerate(context.Background(), model, 3)
		if err1 != nil || err2 != nil {
			rt.Fatalf("Enumerate failed: %v / %v", err1, err2)
		}
		if r1.Ground.Len() != r2.Ground.Len() {
			rt.Fatalf("ground set size differs across runs: %d vs %d", r1.Ground.Len(), r2.Ground.Len())
		}
		for i, p := range r1.Ground.Paths() {
			if r2.Ground.PathAt(uint32(i)) != p {
				rt.Fatalf("path at id %d differs across runs: %s vs %s", i, p, r2.Ground.PathAt(uint32(i)))
			}
		}
	})
}

// TestEnumerateParentClosure checks that every non-root path in the ground
// set has a parent recorded in ConstraintSet.ParentOf, and that following
// the parent chain always terminates at a root element path.
func TestEnumerateParentClosure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xsd, _, _ := buildRandomSequenceSchema(rt)
		model := loadModelRapid(rt, xsd)

		result, err := Enumerate(context.Background(), model, 3)
		if err != nil {
			rt.Fatalf("Enumerate failed: %v", err)
		}

		for _, p := range result.Ground.Paths() {
			if p == ElementPath("Root") {
				continue
			}
			cur := p
			steps := 0
			for {
				parent, ok := result.Constraints.Parent(cur)
				if !ok {
					rt.Fatalf("path %s has no parent chain reaching a root", p)
				}
				cur = parent
				steps++
				if cur == ElementPath("Root") {
					break
				}
				if steps > 10 {
					rt.Fatalf("parent chain from %s did not reach root within 10 steps", p)
				}
			}
		}
	})
}

// TestEnumerateRequiredMatchesMinOccurs checks that every direct child
// element of Root's sequence is recorded required if and only if it was
// declared minOccurs=1.
func TestEnumerateRequiredMatchesMinOccurs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xsd, n, required := buildRandomSequenceSchema(rt)
		model := loadModelRapid(rt, xsd)

		result, err := Enumerate(context.Background(), model, 2)
		if err != nil {
			rt.Fatalf("Enumerate failed: %v", err)
		}

		requiredSet := map[Path]bool{}
		for _, r := range result.Constraints.RequiredChildren(ElementPath("Root")) {
			requiredSet[r] = true
		}
		for i := 0; i < n; i++ {
			childPath := ElementPath("Root", genFieldNames[i])
			if requiredSet[childPath] != required[i] {
				rt.Fatalf("field %s: required=%v in constraint set, expected %v", genFieldNames[i], requiredSet[childPath], required[i])
			}
		}
	})
}
