package schema

import (
	"context"
	"testing"
	"testing/fstest"
)

func loadFS(t *testing.T, files map[string]string) *Model {
	t.Helper()
	mapfs := fstest.MapFS{}
	for name, content := range files {
		mapfs[name] = &fstest.MapFile{Data: []byte(content)}
	}
	model, err := NewLoader(mapfs).Load(context.Background(), "schema.xsd")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return model
}

func TestLoadSimpleSchema(t *testing.T) {
	model := loadFS(t, map[string]string{
		"schema.xsd": `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:element name="user">
        <xs:complexType>
            <xs:sequence>
                <xs:element name="id" type="xs:integer" minOccurs="1"/>
                <xs:element name="nickname" type="xs:string" minOccurs="0"/>
            </xs:sequence>
            <xs:attribute name="version" type="xs:string" use="required"/>
        </xs:complexType>
    </xs:element>
</xs:schema>`,
	})

	if len(model.RootElements) != 1 {
		t.Fatalf("expected 1 root element, got %d", len(model.RootElements))
	}
	if model.RootElements[0].Name != "user" {
		t.Fatalf("expected root element 'user', got %q", model.RootElements[0].Name)
	}

	ct := model.LookupComplexType(model.RootElements[0].TypeRef)
	if ct == nil {
		t.Fatal("expected inline complex type to resolve")
	}
	if ct.Content != ContentElementOnly {
		t.Fatalf("expected element-only content, got %v", ct.Content)
	}
	if len(ct.Attributes) != 1 || ct.Attributes[0].Name != "version" || ct.Attributes[0].Use != "required" {
		t.Fatalf("unexpected attributes: %+v", ct.Attributes)
	}
	if ct.Particle == nil || len(ct.Particle.Children) != 2 {
		t.Fatalf("expected sequence with 2 children, got %+v", ct.Particle)
	}
	if ct.Particle.Children[1].MinOccurs != 0 {
		t.Fatalf("expected nickname minOccurs=0, got %d", ct.Particle.Children[1].MinOccurs)
	}
}

func TestLoadWithInclude(t *testing.T) {
	model := loadFS(t, map[string]string{
		"schema.xsd": `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:include schemaLocation="common.xsd"/>
    <xs:element name="root" type="tns:Address" xmlns:tns="urn:test"/>
</xs:schema>`,
		"common.xsd": `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:complexType name="Address">
        <xs:sequence>
            <xs:element name="city" type="xs:string"/>
        </xs:sequence>
    </xs:complexType>
</xs:schema>`,
	})

	if len(model.ComplexTypes) == 0 {
		t.Fatal("expected Address complex type to be visible after include")
	}
}

func TestLoadUnresolvableImportIsOpaqueNotFatal(t *testing.T) {
	model := loadFS(t, map[string]string{
		"schema.xsd": `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
    <xs:import namespace="urn:missing" schemaLocation="missing.xsd"/>
    <xs:element name="root" type="xs:string"/>
</xs:schema>`,
	})
	if !model.OpaqueNamespaces["urn:missing"] {
		t.Fatalf("expected urn:missing to be recorded opaque, got %+v", model.OpaqueNamespaces)
	}
}

func TestLoadMissingRootFails(t *testing.T) {
	mapfs := fstest.MapFS{}
	if _, err := NewLoader(mapfs).Load(context.Background(), "schema.xsd"); err == nil {
		t.Fatal("expected an error loading a nonexistent schema")
	}
}
