package pathmodel

import "testing"

func TestPathConstruction(t *testing.T) {
	root := ElementPath("Order")
	if root != "/Order" {
		t.Fatalf("expected /Order, got %s", root)
	}
	item := root.Child("Item")
	if item != "/Order/Item" {
		t.Fatalf("expected /Order/Item, got %s", item)
	}
	attr := root.AttrPath("id")
	if attr != "/Order@id" {
		t.Fatalf("expected /Order@id, got %s", attr)
	}
}

func TestPathIsAttribute(t *testing.T) {
	if ElementPath("Order").IsAttribute() {
		t.Error("element path must not report as attribute")
	}
	if !ElementPath("Order").AttrPath("id").IsAttribute() {
		t.Error("attribute path must report as attribute")
	}
}

func TestPathElementPartAndAttrName(t *testing.T) {
	p := ElementPath("Order", "Item").AttrPath("sku")
	if p.ElementPart() != ElementPath("Order", "Item") {
		t.Errorf("expected element part /Order/Item, got %s", p.ElementPart())
	}
	if p.AttrName() != "sku" {
		t.Errorf("expected attribute name sku, got %s", p.AttrName())
	}
	if ElementPath("Order").AttrName() != "" {
		t.Error("an element path must report an empty attribute name")
	}
}

func TestPathDepth(t *testing.T) {
	cases := []struct {
		path Path
		want int
	}{
		{ElementPath("Order"), 1},
		{ElementPath("Order", "Item"), 2},
		{ElementPath("Order", "Item").AttrPath("sku"), 2},
	}
	for _, c := range cases {
		if got := c.path.Depth(); got != c.want {
			t.Errorf("Depth(%s) = %d, want %d", c.path, got, c.want)
		}
	}
}
