// Package coverage implements the Coverage Measurer (component D): it
// parses one or more XML documents into an in-memory tree, grounded
// directly on moolekkari-validatexml-go's xml_parser.go
// StartElement/CharData/EndElement state machine, walks the resulting
// tree to collect the set of
// element/attribute paths actually present, and diffs that set against a
// pathmodel.GroundSet to produce a Report.
package coverage
