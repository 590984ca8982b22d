package schema

import "encoding/xml"

// The raw* types decode an <xs:schema> document close to its wire shape
// with encoding/xml tags, the way moolekkari-validatexml-go's own
// Schema/Element/ComplexType/Sequence/Restriction structs do. Here every
// tag is namespace-qualified against XSDNamespace so a document may
// freely use "xs:", "xsd:", or any other bound prefix for the schema
// vocabulary itself -- only attribute *values* that embed a QName
// (type="...", ref="...") need the hand-rolled prefix resolution in
// qname.go, the way getNamespacePrefix/ResolveQName does it there.

type rawSchema struct {
	XMLName            xml.Name              `xml:"http://www.w3.org/2001/XMLSchema schema"`
	TargetNamespace    string                `xml:"targetNamespace,attr"`
	ElementFormDefault string                `xml:"elementFormDefault,attr"`
	Imports            []rawImport           `xml:"http://www.w3.org/2001/XMLSchema import"`
	Includes           []rawInclude          `xml:"http://www.w3.org/2001/XMLSchema include"`
	Elements           []rawElement          `xml:"http://www.w3.org/2001/XMLSchema element"`
	ComplexTypes       []rawComplexType      `xml:"http://www.w3.org/2001/XMLSchema complexType"`
	SimpleTypes        []rawSimpleType       `xml:"http://www.w3.org/2001/XMLSchema simpleType"`
	AttributeGroups    []rawAttributeGroup   `xml:"http://www.w3.org/2001/XMLSchema attributeGroup"`
}

type rawImport struct {
	Namespace      string `xml:"namespace,attr"`
	SchemaLocation string `xml:"schemaLocation,attr"`
}

type rawInclude struct {
	SchemaLocation string `xml:"schemaLocation,attr"`
}

type rawElement struct {
	Name              string          `xml:"name,attr"`
	Ref               string          `xml:"ref,attr"`
	Type              string          `xml:"type,attr"`
	MinOccurs         string          `xml:"minOccurs,attr"`
	MaxOccurs         string          `xml:"maxOccurs,attr"`
	SubstitutionGroup string          `xml:"substitutionGroup,attr"`
	ComplexType       *rawComplexType `xml:"http://www.w3.org/2001/XMLSchema complexType"`
	SimpleType        *rawSimpleType  `xml:"http://www.w3.org/2001/XMLSchema simpleType"`
}

type rawComplexType struct {
	Name            string                   `xml:"name,attr"`
	Mixed           string                   `xml:"mixed,attr"`
	Sequence        *rawGroup                `xml:"http://www.w3.org/2001/XMLSchema sequence"`
	Choice          *rawGroup                `xml:"http://www.w3.org/2001/XMLSchema choice"`
	All             *rawGroup                `xml:"http://www.w3.org/2001/XMLSchema all"`
	SimpleContent   *rawSimpleContent        `xml:"http://www.w3.org/2001/XMLSchema simpleContent"`
	ComplexContent  *rawComplexContent       `xml:"http://www.w3.org/2001/XMLSchema complexContent"`
	Attributes      []rawAttribute           `xml:"http://www.w3.org/2001/XMLSchema attribute"`
	AttributeGroups []rawAttributeGroupRef   `xml:"http://www.w3.org/2001/XMLSchema attributeGroup"`
}

type rawSimpleContent struct {
	Extension   *rawExtension `xml:"http://www.w3.org/2001/XMLSchema extension"`
	Restriction *rawExtension `xml:"http://www.w3.org/2001/XMLSchema restriction"`
}

type rawComplexContent struct {
	Mixed       string        `xml:"mixed,attr"`
	Extension   *rawExtension `xml:"http://www.w3.org/2001/XMLSchema extension"`
	Restriction *rawExtension `xml:"http://www.w3.org/2001/XMLSchema restriction"`
}

// rawExtension covers both xs:extension and xs:restriction bodies: both
// carry a base and, for complex content, an optional content particle plus
// attributes. The spec draws no behavioral distinction between the two for
// attribute/content inheritance purposes (general XSD 1.1 validation,
// including restriction narrowing, is a named Non-goal).
type rawExtension struct {
	Base            string                 `xml:"base,attr"`
	Sequence        *rawGroup              `xml:"http://www.w3.org/2001/XMLSchema sequence"`
	Choice          *rawGroup              `xml:"http://www.w3.org/2001/XMLSchema choice"`
	All             *rawGroup              `xml:"http://www.w3.org/2001/XMLSchema all"`
	Attributes      []rawAttribute         `xml:"http://www.w3.org/2001/XMLSchema attribute"`
	AttributeGroups []rawAttributeGroupRef `xml:"http://www.w3.org/2001/XMLSchema attributeGroup"`
}

// rawGroup covers xs:sequence, xs:choice, and xs:all bodies. Nested groups
// of any kind are legal inside a sequence/choice; xs:all only legally
// nests elements, but we parse it uniformly and let the compiler enforce
// that if it ever matters.
type rawGroup struct {
	MinOccurs string       `xml:"minOccurs,attr"`
	MaxOccurs string       `xml:"maxOccurs,attr"`
	Elements  []rawElement `xml:"http://www.w3.org/2001/XMLSchema element"`
	Sequences []rawGroup   `xml:"http://www.w3.org/2001/XMLSchema sequence"`
	Choices   []rawGroup   `xml:"http://www.w3.org/2001/XMLSchema choice"`
	Any       []rawAny     `xml:"http://www.w3.org/2001/XMLSchema any"`
}

type rawAny struct {
	Namespace       string `xml:"namespace,attr"`
	ProcessContents string `xml:"processContents,attr"`
	MinOccurs       string `xml:"minOccurs,attr"`
	MaxOccurs       string `xml:"maxOccurs,attr"`
}

type rawAttribute struct {
	Name       string         `xml:"name,attr"`
	Ref        string         `xml:"ref,attr"`
	Type       string         `xml:"type,attr"`
	Use        string         `xml:"use,attr"`
	Fixed      string         `xml:"fixed,attr"`
	SimpleType *rawSimpleType `xml:"http://www.w3.org/2001/XMLSchema simpleType"`
}

type rawAttributeGroupRef struct {
	Ref string `xml:"ref,attr"`
}

type rawAttributeGroup struct {
	Name            string                 `xml:"name,attr"`
	Attributes      []rawAttribute         `xml:"http://www.w3.org/2001/XMLSchema attribute"`
	AttributeGroups []rawAttributeGroupRef `xml:"http://www.w3.org/2001/XMLSchema attributeGroup"`
}

type rawSimpleType struct {
	Name        string          `xml:"name,attr"`
	Restriction *rawRestriction `xml:"http://www.w3.org/2001/XMLSchema restriction"`
}

type rawRestriction struct {
	Base        string     `xml:"base,attr"`
	Enumeration []rawFacet `xml:"http://www.w3.org/2001/XMLSchema enumeration"`
}

type rawFacet struct {
	Value string `xml:"value,attr"`
}
