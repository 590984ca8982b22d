package smt

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

func loadResult(t *testing.T, xsd string, maxDepth int) *pathmodel.Result {
	t.Helper()
	mapfs := fstest.MapFS{"schema.xsd": &fstest.MapFile{Data: []byte(xsd)}}
	model, err := schema.NewLoader(mapfs).Load(context.Background(), "schema.xsd")
	if err != nil {
		t.Fatalf("failed loading schema: %v", err)
	}
	result, err := pathmodel.Enumerate(context.Background(), model, maxDepth)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	return result
}

const orderXSD = `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:element name="Order">
        <xs:complexType>
            <xs:sequence>
                <xs:element name="Item" type="xs:string" minOccurs="1"/>
                <xs:element name="Note" type="xs:string" minOccurs="0"/>
            </xs:sequence>
            <xs:attribute name="id" type="xs:integer" use="required"/>
        </xs:complexType>
    </xs:element>
</xs:schema>`

func TestBuildClauseSpecHierarchyAndRequired(t *testing.T) {
	result := loadResult(t, orderXSD, 2)
	spec := BuildClauseSpec(result.Ground, result.Constraints, pathmodel.ElementPath("Order"), 2)

	if spec.Root != pathmodel.ElementPath("Order") {
		t.Fatalf("expected root Order, got %s", spec.Root)
	}
	if len(spec.Hierarchy) != result.Ground.Len()-1 {
		t.Fatalf("expected one hierarchy clause per non-root path, got %d for %d paths", len(spec.Hierarchy), result.Ground.Len())
	}

	foundItemRequired := false
	for _, r := range spec.Required {
		if r.From == pathmodel.ElementPath("Order") && r.To == pathmodel.ElementPath("Order", "Item") {
			foundItemRequired = true
		}
		if r.From == pathmodel.ElementPath("Order") && r.To == pathmodel.ElementPath("Order", "Note") {
			t.Error("Note has minOccurs=0 and must not be a required clause")
		}
	}
	if !foundItemRequired {
		t.Error("expected a required clause from Order to Item")
	}
}

func TestBuildClauseSpecIsDeterministic(t *testing.T) {
	result := loadResult(t, orderXSD, 2)
	s1 := BuildClauseSpec(result.Ground, result.Constraints, pathmodel.ElementPath("Order"), 2)
	s2 := BuildClauseSpec(result.Ground, result.Constraints, pathmodel.ElementPath("Order"), 2)

	if len(s1.Hierarchy) != len(s2.Hierarchy) || len(s1.Required) != len(s2.Required) {
		t.Fatal("expected identical clause counts across repeated builds")
	}
	for i := range s1.Hierarchy {
		if s1.Hierarchy[i] != s2.Hierarchy[i] {
			t.Fatalf("hierarchy clause %d differs across builds: %+v vs %+v", i, s1.Hierarchy[i], s2.Hierarchy[i])
		}
	}
}

func TestBuildClauseSpecForbidsPathsBeyondMaxDepth(t *testing.T) {
	result := loadResult(t, orderXSD, 2)
	spec := BuildClauseSpec(result.Ground, result.Constraints, pathmodel.ElementPath("Order"), 1)

	foundForbidden := false
	for _, p := range spec.Forbidden {
		if p == pathmodel.ElementPath("Order", "Item") {
			foundForbidden = true
		}
	}
	if !foundForbidden {
		t.Error("expected /Order/Item to be forbidden when maxDepth=1")
	}
}

func TestBuildClauseSpecChoiceExclusivity(t *testing.T) {
	result := loadResult(t, `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:element name="Shape">
        <xs:complexType>
            <xs:choice>
                <xs:element name="Circle" type="xs:string"/>
                <xs:element name="Square" type="xs:string"/>
            </xs:choice>
        </xs:complexType>
    </xs:element>
</xs:schema>`, 2)

	spec := BuildClauseSpec(result.Ground, result.Constraints, pathmodel.ElementPath("Shape"), 2)
	if len(spec.Choices) != 1 {
		t.Fatalf("expected 1 choice clause, got %d", len(spec.Choices))
	}
	if len(spec.Choices[0].Alternatives) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(spec.Choices[0].Alternatives))
	}
}
