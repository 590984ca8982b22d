// Package materialize implements the Schema-Aware Materializer (component
// H): it builds a schema-valid XML document tree from either a selected
// set of paths or a pairwise TestPattern, then serializes it with a
// pretty-printing indent pass, in a build-a-Node-tree-first, render-second
// style (xml_parser.go's Document/Node shape, mirrored here for output
// rather than input).
package materialize
