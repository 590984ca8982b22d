package coverage

import "testing"

func TestParseDocumentBuildsTree(t *testing.T) {
	doc, err := ParseDocument("order.xml", []byte(`<Order id="42"><Item>Widget</Item><Item>Gadget</Item></Order>`))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if doc.Root.Name.Local != "Order" {
		t.Fatalf("expected root Order, got %s", doc.Root.Name.Local)
	}
	if len(doc.Root.Attrs) != 1 || doc.Root.Attrs[0].Name.Local != "id" || doc.Root.Attrs[0].Value != "42" {
		t.Fatalf("unexpected attrs: %+v", doc.Root.Attrs)
	}
	if len(doc.Root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(doc.Root.Children))
	}
	if doc.Root.Children[0].Content != "Widget" {
		t.Fatalf("expected content Widget, got %q", doc.Root.Children[0].Content)
	}
	if doc.Root.Children[0].Parent != doc.Root {
		t.Fatal("expected child's Parent pointer to reference the root node")
	}
}

func TestParseDocumentRejectsEmptyInput(t *testing.T) {
	if _, err := ParseDocument("empty.xml", []byte(``)); err == nil {
		t.Fatal("expected an error parsing an empty document")
	}
}

func TestParseDocumentRejectsMalformedXML(t *testing.T) {
	if _, err := ParseDocument("bad.xml", []byte(`<Order><Item></Order>`)); err == nil {
		t.Fatal("expected an error parsing malformed XML")
	}
}
