package smt

import (
	"testing"

	"github.com/miwamasa/xsdcoverage/pathmodel"
)

func TestVarNameEscapesSeparators(t *testing.T) {
	cases := []struct {
		path pathmodel.Path
		want string
	}{
		{pathmodel.ElementPath("Order"), "v_Order"},
		{pathmodel.ElementPath("Order", "Item"), "v_Order_Item"},
		{pathmodel.ElementPath("Order").AttrPath("id"), "v_Order_AT_id"},
	}
	for _, c := range cases {
		if got := varName(c.path); got != c.want {
			t.Errorf("varName(%s) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestVarNameIsCollisionFreeForDistinctPaths(t *testing.T) {
	a := pathmodel.ElementPath("Order", "Item")
	b := pathmodel.ElementPath("Order").AttrPath("Item")
	if varName(a) == varName(b) {
		t.Errorf("expected distinct var names for %s and %s, both got %s", a, b, varName(a))
	}
}
