package schema

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io/fs"
	"path"
	"strings"

	xsderrors "github.com/miwamasa/xsdcoverage/errors"
)

// parsedFile is one decoded <xs:schema> document together with the prefix
// map captured from its own root element, used to resolve the QName-valued
// attribute text (type="...", ref="...", base="...") that document
// contains. Mirrors a per-file Xmlns map captured alongside each decoded
// document, the way moolekkari-validatexml-go's xsd.go does.
type parsedFile struct {
	raw    *rawSchema
	nsMap  map[string]string
	target string
	prefix string // this file's own bound prefix for XSDNamespace, "xs" if unbound
}

// Loader resolves a root XSD document plus every xs:import/xs:include it
// (transitively) references against fsys, walking basePath-relative
// sibling files with a visited-path cycle guard, the way
// processImportsAndIncludesWithTracker does in moolekkari-validatexml-go.
// Imports whose schemaLocation
// cannot be opened are not an error: the namespace is recorded opaque
// (§4.A) and compilation proceeds.
type Loader struct {
	fsys             fs.FS
	opaqueNamespaces map[string]bool
}

// NewLoader constructs a Loader rooted at fsys. Every schemaLocation, import
// or include, is resolved relative to fsys using path.Join/path.Dir -- there
// is no network fallback (Non-goal, §1).
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, opaqueNamespaces: make(map[string]bool)}
}

// Load parses location and every schema it transitively imports/includes,
// and compiles the result into an immutable Model. ctx is checked between
// files so a cancelled run (Ctrl-C, a CLI-wide deadline) stops walking
// imports rather than continuing to open files that will be discarded.
func (l *Loader) Load(ctx context.Context, location string) (*Model, error) {
	visited := make(map[string]bool)
	var files []*parsedFile
	if err := l.loadOne(ctx, location, "", visited, &files); err != nil {
		return nil, err
	}
	return compile(files, l.opaqueNamespaces)
}

func (l *Loader) loadOne(ctx context.Context, location, basePath string, visited map[string]bool, files *[]*parsedFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := location
	if basePath != "" {
		full = path.Join(basePath, location)
	}
	full = path.Clean(full)
	if visited[full] {
		return nil
	}
	visited[full] = true

	data, err := fs.ReadFile(l.fsys, full)
	if err != nil {
		return &xsderrors.SchemaParseError{Reason: fmt.Sprintf("cannot open schema: %v", err), Location: full}
	}

	nsMap, prefix, err := extractNamespaces(data)
	if err != nil {
		return &xsderrors.SchemaParseError{Reason: err.Error(), Location: full}
	}

	raw := &rawSchema{}
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(raw); err != nil {
		return &xsderrors.SchemaParseError{Reason: fmt.Sprintf("malformed XSD: %v", err), Location: full}
	}

	pf := &parsedFile{raw: raw, nsMap: nsMap, target: raw.TargetNamespace, prefix: prefix}
	*files = append(*files, pf)

	dir := path.Dir(full)

	for _, inc := range raw.Includes {
		if inc.SchemaLocation == "" {
			return &xsderrors.SchemaParseError{Reason: "include element is missing schemaLocation", Location: full}
		}
		if err := l.loadOne(ctx, inc.SchemaLocation, dir, visited, files); err != nil {
			return fmt.Errorf("include %s from %s: %w", inc.SchemaLocation, full, err)
		}
	}

	for _, imp := range raw.Imports {
		if imp.SchemaLocation == "" {
			// Import without a location is legal for well-known/built-in
			// namespaces; nothing to resolve locally.
			if imp.Namespace != "" {
				l.opaqueNamespaces[imp.Namespace] = true
			}
			continue
		}
		if err := l.loadOne(ctx, imp.SchemaLocation, dir, visited, files); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// Offline fallback (§1 Non-goal: no network retrieval): record
			// the namespace opaque rather than failing the run.
			l.opaqueNamespaces[imp.Namespace] = true
			continue
		}
	}

	return nil
}

// extractNamespaces scans the root element's attributes for xmlns
// declarations with a throwaway decoder pass, the way
// moolekkari-validatexml-go's own extractNamespaces does, and reports
// which prefix (if any) is bound to XSDNamespace.
func extractNamespaces(data []byte) (map[string]string, string, error) {
	nsMap := make(map[string]string)
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range start.Attr {
			switch {
			case attr.Name.Space == "xmlns":
				nsMap[attr.Name.Local] = attr.Value
			case attr.Name.Local == "xmlns":
				nsMap[""] = attr.Value
			}
		}
		break // only the root element's declarations matter here
	}

	prefix := "xs"
	found := false
	for p, uri := range nsMap {
		if uri == XSDNamespace && p != "" {
			prefix = p
			found = true
			break
		}
	}
	if !found {
		// Default to "xs" per §4.A even if the document bound the schema
		// namespace as the default (unprefixed) namespace.
		prefix = "xs"
	}
	return nsMap, prefix, nil
}

// LocalSchemaLocation joins a relative schemaLocation against a directory,
// exposing the loader's resolution rule to callers outside the loader. No
// package in this module calls it.
func LocalSchemaLocation(dir, location string) string {
	if strings.HasPrefix(location, "/") {
		return path.Clean(location)
	}
	return path.Clean(path.Join(dir, location))
}
