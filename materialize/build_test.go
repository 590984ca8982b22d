package materialize

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

func loadModel(t *testing.T, xsd string) *schema.Model {
	t.Helper()
	mapfs := fstest.MapFS{"schema.xsd": &fstest.MapFile{Data: []byte(xsd)}}
	model, err := schema.NewLoader(mapfs).Load(context.Background(), "schema.xsd")
	if err != nil {
		t.Fatalf("failed loading schema: %v", err)
	}
	return model
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
            <xs:attribute name="priority" type="xs:string" use="optional"/>
        </xs:complexType>
    </xs:element>
</xs:schema>`

func selectNone(pathmodel.Path) bool { return false }

func TestBuildIncludesOnlyRequiredWhenNothingSelected(t *testing.T) {
	model := loadModel(t, orderXSD)
	builder := NewBuilder(model, 2, selectNone)

	root, _, err := builder.Build("Order")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if root.Local != "Order" {
		t.Fatalf("expected root Order, got %s", root.Local)
	}
	if len(root.Attrs) != 1 || root.Attrs[0].Name != "id" {
		t.Fatalf("expected only the required id attribute, got %+v", root.Attrs)
	}
	if len(root.Children) != 1 || root.Children[0].Local != "Item" {
		t.Fatalf("expected only the required Item child, got %+v", root.Children)
	}
}

func TestBuildIncludesSelectedOptionalContent(t *testing.T) {
	model := loadModel(t, orderXSD)
	selected := func(p pathmodel.Path) bool {
		return p == pathmodel.ElementPath("Order", "Note") || p == pathmodel.ElementPath("Order").AttrPath("priority")
	}
	builder := NewBuilder(model, 2, selected)

	root, _, err := builder.Build("Order")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(root.Attrs) != 2 {
		t.Fatalf("expected both attributes present, got %+v", root.Attrs)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected both children present, got %+v", root.Children)
	}
}

func TestBuildUnknownRootFails(t *testing.T) {
	model := loadModel(t, orderXSD)
	builder := NewBuilder(model, 2, selectNone)
	if _, _, err := builder.Build("NoSuchRoot"); err == nil {
		t.Fatal("expected an error building an undeclared root element")
	}
}

func TestBuildChoicePicksSelectedAlternative(t *testing.T) {
	model := loadModel(t, `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:element name="Shape">
        <xs:complexType>
            <xs:choice>
                <xs:element name="Circle" type="xs:string"/>
                <xs:element name="Square" type="xs:string"/>
            </xs:choice>
        </xs:complexType>
    </xs:element>
</xs:schema>`)

	selected := func(p pathmodel.Path) bool { return p == pathmodel.ElementPath("Shape", "Square") }
	builder := NewBuilder(model, 2, selected)

	root, _, err := builder.Build("Shape")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Local != "Square" {
		t.Fatalf("expected the selected Square alternative, got %+v", root.Children)
	}
}

func TestSerializeRoundTripsWellFormedXML(t *testing.T) {
	model := loadModel(t, orderXSD)
	builder := NewBuilder(model, 2, selectNone)
	root, _, err := builder.Build("Order")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	data, err := Serialize(root, "urn:test", "tns")
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `<?xml`) {
		t.Error("expected an XML declaration")
	}
	if !strings.Contains(out, `xmlns:tns="urn:test"`) {
		t.Error("expected the namespace declaration on the root element")
	}
	if !strings.Contains(out, "<Item>") {
		t.Error("expected the required Item element to be serialized")
	}
}

func TestBuildReportsOmittedRequiredDescendantsAtEmergencyCap(t *testing.T) {
	model := loadModel(t, `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:element name="Root" type="RecType"/>
    <xs:complexType name="RecType">
        <xs:sequence>
            <xs:element name="Child" type="RecType" minOccurs="1"/>
        </xs:sequence>
    </xs:complexType>
</xs:schema>`)

	builder := NewBuilder(model, 1, selectNone)
	root, omitted, err := builder.Build("Root")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if root.Local != "Root" {
		t.Fatalf("expected root Root, got %s", root.Local)
	}
	if len(omitted) == 0 {
		t.Fatal("expected the emergency-descent cap to omit at least one required descendant")
	}
	for _, p := range omitted {
		if p.Depth() == 0 {
			t.Errorf("omitted path %s has no depth, looks malformed", p)
		}
	}
}
