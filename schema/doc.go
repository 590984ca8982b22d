// Package schema implements the Schema Model & Loader: it parses an XSD
// (resolving xs:import/xs:include against a filesystem), flattens attribute
// groups and extension-inherited attributes, and produces an immutable
// Model that the path enumerator, constraint extractor, coverage measurer,
// and materializer all walk.
//
// The loader mirrors moolekkari-validatexml-go's xsd.go in shape — decode
// into a struct tree with encoding/xml tags, then build name-keyed lookup
// maps — but generalizes its single Sequence-only content model into the
// tagged particle variant this system's depth-bounded enumerator and SMT
// encoder need.
package schema
