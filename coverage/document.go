package coverage

import (
	"bytes"
	"encoding/xml"
	"io"

	xsderrors "github.com/miwamasa/xsdcoverage/errors"
)

// Node is one element of a parsed XML document tree. Shaped directly on
// moolekkari-validatexml-go's xml_parser.go Node: Parent/Name/Attrs/Children/Content.
type Node struct {
	Parent   *Node
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Content  string
}

// Document wraps the single root Node of a parsed XML file.
type Document struct {
	Root *Node
}

// ParseDocument parses xmlBytes into a Document, reporting file in any
// resulting XMLParseError. Grounded on xml_parser.go's xmlParser.parseDocument
// token loop, generalized only in that it carries no schema and never
// rejects a well-formed document.
func ParseDocument(file string, xmlBytes []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	p := &docParser{decoder: dec, file: file}
	return p.parse()
}

type docParser struct {
	decoder     *xml.Decoder
	current     *Node
	document    *Document
	file        string
}

func (p *docParser) parse() (*Document, error) {
	p.document = &Document{}

	for {
		tok, err := p.decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &xsderrors.XMLParseError{File: p.file, Reason: err.Error()}
		}
		p.process(tok)
	}

	if p.document.Root == nil {
		return nil, &xsderrors.XMLParseError{File: p.file, Reason: "document is empty or contains no root element"}
	}
	return p.document, nil
}

func (p *docParser) process(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		p.start(t)
	case xml.CharData:
		p.charData(t)
	case xml.EndElement:
		p.end()
	case xml.Comment, xml.ProcInst, xml.Directive:
		// not part of the element/attribute path model
	}
}

func (p *docParser) start(el xml.StartElement) {
	node := &Node{
		Parent: p.current,
		Name:   el.Name,
		Attrs:  make([]xml.Attr, len(el.Attr)),
	}
	copy(node.Attrs, el.Attr)

	if p.document.Root == nil {
		p.document.Root = node
	}
	if p.current != nil {
		p.current.Children = append(p.current.Children, node)
	}
	p.current = node
}

func (p *docParser) charData(data xml.CharData) {
	if p.current != nil {
		p.current.Content += string(data)
	}
}

func (p *docParser) end() {
	if p.current != nil {
		p.current = p.current.Parent
	}
}

