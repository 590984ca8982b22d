package pairwise

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/miwamasa/xsdcoverage/pathmodel"
	"github.com/miwamasa/xsdcoverage/schema"
)

func TestGenerateCoversAllPairsOnSmallItemSet(t *testing.T) {
	items := []pathmodel.Path{
		pathmodel.ElementPath("Order", "Note"),
		pathmodel.ElementPath("Order", "Discount"),
		pathmodel.ElementPath("Order").AttrPath("priority"),
	}
	result := Generate(items, nil, 50, 42)

	if result.PairCoverage < 1.0 {
		t.Errorf("expected full pair coverage on 3 items within 50 patterns, got %.4f", result.PairCoverage)
	}
	if len(result.Patterns) == 0 {
		t.Fatal("expected at least one pattern")
	}
}

func TestGenerateIsDeterministicForAGivenSeed(t *testing.T) {
	items := []pathmodel.Path{
		pathmodel.ElementPath("A"),
		pathmodel.ElementPath("B"),
		pathmodel.ElementPath("C"),
		pathmodel.ElementPath("D"),
	}
	r1 := Generate(items, nil, 20, 7)
	r2 := Generate(items, nil, 20, 7)

	if len(r1.Patterns) != len(r2.Patterns) {
		t.Fatalf("expected same pattern count for the same seed, got %d vs %d", len(r1.Patterns), len(r2.Patterns))
	}
	for i := range r1.Patterns {
		for j := range r1.Patterns[i].Values {
			if r1.Patterns[i].Values[j] != r2.Patterns[i].Values[j] {
				t.Fatalf("pattern %d value %d differs across runs with the same seed", i, j)
			}
		}
	}
}

func TestGenerateRespectsMaxPatternsCap(t *testing.T) {
	items := make([]pathmodel.Path, 20)
	for i := range items {
		items[i] = pathmodel.ElementPath("Root").Child(string(rune('A' + i)))
	}
	result := Generate(items, nil, 3, 1)
	if len(result.Patterns) > 3 {
		t.Errorf("expected at most 3 patterns, got %d", len(result.Patterns))
	}
}

func TestGenerateEmptyItemsReturnsAllRequiredBaseline(t *testing.T) {
	result := Generate(nil, nil, 10, 1)
	if len(result.Patterns) != 1 {
		t.Errorf("expected the all-required baseline pattern for no items, got %+v", result)
	}
	if result.PairCoverage != 1.0 {
		t.Errorf("expected coverage 1.0 over 0 pairs, got %v", result.PairCoverage)
	}
}

func TestGenerateExcludesBothTrueWithinAChoiceGroup(t *testing.T) {
	items := []pathmodel.Path{
		pathmodel.ElementPath("Shape", "Circle"),
		pathmodel.ElementPath("Shape", "Square"),
		pathmodel.ElementPath("Shape").AttrPath("color"),
	}
	groups := [][]int{{0, 1}}
	result := Generate(items, groups, 50, 3)

	for _, p := range result.Patterns {
		if p.Values[0] && p.Values[1] {
			t.Fatalf("pattern selected both Circle and Square, which a choice can never realize: %+v", p)
		}
	}
	if result.PairCoverage < 1.0 {
		t.Errorf("expected full coverage of the reachable pairs, got %.4f", result.PairCoverage)
	}
}

func TestExtractOptionalExcludesRequiredAndRoot(t *testing.T) {
	mapfs := fstest.MapFS{"schema.xsd": &fstest.MapFile{Data: []byte(`
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
</xs:schema>`)}}
	model, err := schema.NewLoader(mapfs).Load(context.Background(), "schema.xsd")
	if err != nil {
		t.Fatalf("failed loading schema: %v", err)
	}
	result, err := pathmodel.Enumerate(context.Background(), model, 2)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	items, dropped := ExtractOptional(result.Ground, result.Constraints)
	if dropped != 0 {
		t.Errorf("expected no truncation on a small schema, got dropped=%d", dropped)
	}

	set := map[pathmodel.Path]bool{}
	for _, it := range items {
		set[it] = true
	}
	if set[pathmodel.ElementPath("Order")] {
		t.Error("the root element path must never be treated as optional")
	}
	if set[pathmodel.ElementPath("Order", "Item")] {
		t.Error("Item is required and must not be treated as optional")
	}
	if set[pathmodel.ElementPath("Order").AttrPath("id")] {
		t.Error("id is a required attribute and must not be treated as optional")
	}
	if !set[pathmodel.ElementPath("Order", "Note")] {
		t.Error("Note has minOccurs=0 and should be treated as optional")
	}
	if !set[pathmodel.ElementPath("Order").AttrPath("priority")] {
		t.Error("priority is an optional attribute and should be treated as optional")
	}
}
