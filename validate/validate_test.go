package validate

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/miwamasa/xsdcoverage/coverage"
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
        </xs:complexType>
    </xs:element>
</xs:schema>`

func parse(t *testing.T, xml string) *coverage.Document {
	t.Helper()
	doc, err := coverage.ParseDocument("doc.xml", []byte(xml))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	return doc
}

func TestDocumentValidAcceptsWellFormedDocument(t *testing.T) {
	model := loadModel(t, orderXSD)
	doc := parse(t, `<Order id="1"><Item>Widget</Item></Order>`)
	if err := Document(model, doc); err != nil {
		t.Errorf("expected a valid document, got error: %v", err)
	}
}

func TestDocumentRejectsMissingRequiredElement(t *testing.T) {
	model := loadModel(t, orderXSD)
	doc := parse(t, `<Order id="1"></Order>`)
	err := Document(model, doc)
	if err == nil || !strings.Contains(err.Error(), "Item") {
		t.Errorf("expected a missing-Item error, got: %v", err)
	}
}

func TestDocumentRejectsMissingRequiredAttribute(t *testing.T) {
	model := loadModel(t, orderXSD)
	doc := parse(t, `<Order><Item>Widget</Item></Order>`)
	err := Document(model, doc)
	if err == nil || !strings.Contains(err.Error(), "@id") {
		t.Errorf("expected a missing-@id error, got: %v", err)
	}
}

func TestDocumentRejectsUnexpectedElement(t *testing.T) {
	model := loadModel(t, orderXSD)
	doc := parse(t, `<Order id="1"><Item>Widget</Item><Extra>surprise</Extra></Order>`)
	err := Document(model, doc)
	if err == nil || !strings.Contains(err.Error(), "Extra") {
		t.Errorf("expected an unexpected-element error, got: %v", err)
	}
}

func TestDocumentRejectsUndeclaredRoot(t *testing.T) {
	model := loadModel(t, orderXSD)
	doc := parse(t, `<NotOrder/>`)
	if err := Document(model, doc); err == nil {
		t.Error("expected an error for an undeclared root element")
	}
}

func TestDocumentChoiceRequiresOneAlternative(t *testing.T) {
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

	valid := parse(t, `<Shape><Square>red</Square></Shape>`)
	if err := Document(model, valid); err != nil {
		t.Errorf("expected a valid choice document, got: %v", err)
	}

	invalid := parse(t, `<Shape></Shape>`)
	if err := Document(model, invalid); err == nil {
		t.Error("expected an error when no choice alternative is present")
	}
}
