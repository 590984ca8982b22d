package materialize

import (
	"testing"

	"github.com/miwamasa/xsdcoverage/schema"
)

func TestLeafValueBuiltinTypes(t *testing.T) {
	model := &schema.Model{SimpleTypes: map[schema.QName]*schema.SimpleType{}}
	cases := []struct {
		local string
		want  string
	}{
		{"integer", "1"},
		{"decimal", "1.0"},
		{"boolean", "true"},
		{"date", "2024-01-01"},
		{"dateTime", "2024-01-01T00:00:00Z"},
	}
	for _, c := range cases {
		got := LeafValue(model, schema.QName{Namespace: schema.XSDNamespace, Local: c.local}, "field")
		if got != c.want {
			t.Errorf("LeafValue(%s) = %q, want %q", c.local, got, c.want)
		}
	}
}

func TestLeafValueUnknownTypeFallsBackToElementName(t *testing.T) {
	model := &schema.Model{SimpleTypes: map[schema.QName]*schema.SimpleType{}}
	got := LeafValue(model, schema.QName{Namespace: schema.XSDNamespace, Local: "string"}, "nickname")
	if got != "nickname_value" {
		t.Errorf("expected nickname_value, got %q", got)
	}
}

func TestLeafValueEnumerationWinsOverBase(t *testing.T) {
	enumType := schema.QName{Namespace: "urn:test", Local: "Status"}
	model := &schema.Model{
		SimpleTypes: map[schema.QName]*schema.SimpleType{
			enumType: {Name: enumType, Base: schema.QName{Namespace: schema.XSDNamespace, Local: "string"}, Enumeration: []string{"active", "inactive"}},
		},
	}
	got := LeafValue(model, enumType, "status")
	if got != "active" {
		t.Errorf("expected first enumeration value 'active', got %q", got)
	}
}

func TestOpaqueFallbackKnownAndUnknown(t *testing.T) {
	node, ok := OpaqueFallback("SignatureType")
	if !ok || node.Local != "Signature" {
		t.Fatalf("expected a Signature fallback node, got %+v ok=%v", node, ok)
	}

	_, ok = OpaqueFallback("SomeUnknownType")
	if ok {
		t.Error("expected no fallback for an unknown opaque type")
	}
}
