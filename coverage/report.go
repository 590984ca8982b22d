package coverage

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"

	xsderrors "github.com/miwamasa/xsdcoverage/errors"
	"github.com/miwamasa/xsdcoverage/pathmodel"
)

// externalSchemaMarker flags a path that belongs to an externally
// imported schema rather than the one being measured -- e.g. an XML
// Digital Signature element reached under a /Signature/ ancestor.
const externalSchemaMarker = "/Signature/"

func isExternalSchemaPath(path string) bool {
	return strings.Contains(path, externalSchemaMarker)
}

// Report is the result of diffing one or more documents' used paths
// against a pathmodel.GroundSet, per §4.D.
type Report struct {
	DefinedElements int
	DefinedAttrs    int
	CoveredElements int
	CoveredAttrs    int

	UnusedElements []pathmodel.Path
	UnusedAttrs    []pathmodel.Path

	// UndefinedPaths were present in a document but never registered in
	// the ground set -- a warning, never an error (§4.D). Each entry's
	// External flag splits the externally-imported-schema case (safe to
	// ignore) from a genuinely undefined path (worth investigating).
	UndefinedPaths []xsderrors.UndefinedPathWarning

	// ExternalPathCount and TrulyUndefinedPathCount partition
	// UndefinedPaths by the same External flag, for callers that just
	// want the two counts without re-scanning the slice.
	ExternalPathCount       int
	TrulyUndefinedPathCount int

	UsedElements []pathmodel.Path
	UsedAttrs    []pathmodel.Path
}

// OverallPercent returns the combined element+attribute coverage, 0-100.
func (r *Report) OverallPercent() float64 {
	defined := r.DefinedElements + r.DefinedAttrs
	if defined == 0 {
		return 0
	}
	covered := r.CoveredElements + r.CoveredAttrs
	return 100 * float64(covered) / float64(defined)
}

// Measure diffs the union of every document's used paths against ground.
// Each entry in files is (display name, parsed document).
func Measure(ground *pathmodel.GroundSet, files []NamedDocument) (*Report, error) {
	covered := roaring.New()
	var undefined []xsderrors.UndefinedPathWarning
	undefinedSeen := make(map[string]bool)

	for _, nd := range files {
		ids, warnings := collectPathIDs(ground, nd.Document)
		covered.Or(ids)
		for _, w := range warnings {
			key := nd.Name + "|" + w.Path
			if undefinedSeen[key] {
				continue
			}
			undefinedSeen[key] = true
			w.File = nd.Name
			undefined = append(undefined, w)
		}
	}

	sort.Slice(undefined, func(i, j int) bool {
		if undefined[i].File != undefined[j].File {
			return undefined[i].File < undefined[j].File
		}
		return undefined[i].Path < undefined[j].Path
	})

	externalCount, trulyUndefinedCount := 0, 0
	for _, w := range undefined {
		if w.External {
			externalCount++
		} else {
			trulyUndefinedCount++
		}
	}

	coveredElements := roaring.And(covered, ground.Elements)
	coveredAttrs := roaring.And(covered, ground.Attributes)

	report := &Report{
		DefinedElements:         int(ground.Elements.GetCardinality()),
		DefinedAttrs:            int(ground.Attributes.GetCardinality()),
		CoveredElements:         int(coveredElements.GetCardinality()),
		CoveredAttrs:            int(coveredAttrs.GetCardinality()),
		UndefinedPaths:          undefined,
		ExternalPathCount:       externalCount,
		TrulyUndefinedPathCount: trulyUndefinedCount,
	}

	unusedElements := roaring.AndNot(ground.Elements, covered)
	unusedAttrs := roaring.AndNot(ground.Attributes, covered)

	report.UnusedElements = idsToPaths(ground, unusedElements)
	report.UnusedAttrs = idsToPaths(ground, unusedAttrs)
	report.UsedElements = idsToPaths(ground, coveredElements)
	report.UsedAttrs = idsToPaths(ground, coveredAttrs)

	return report, nil
}

// NamedDocument pairs a display name (typically the source file path) with
// its parsed Document, for multi-document Measure calls.
type NamedDocument struct {
	Name     string
	Document *Document
}

// collectPathIDs walks doc's tree, returning the bitmap of ground-set ids
// it touches plus a warning for every path not found in ground.
func collectPathIDs(ground *pathmodel.GroundSet, doc *Document) (*roaring.Bitmap, []xsderrors.UndefinedPathWarning) {
	ids := roaring.New()
	var warnings []xsderrors.UndefinedPathWarning
	if doc == nil || doc.Root == nil {
		return ids, warnings
	}

	var walk func(n *Node, elementPath pathmodel.Path)
	walk = func(n *Node, elementPath pathmodel.Path) {
		if id, ok := ground.ID(elementPath); ok {
			ids.Add(id)
		} else {
			warnings = append(warnings, xsderrors.UndefinedPathWarning{
				Path:     string(elementPath),
				External: isExternalSchemaPath(string(elementPath)),
			})
		}

		for _, attr := range n.Attrs {
			attrPath := elementPath.AttrPath(attr.Name.Local)
			if id, ok := ground.ID(attrPath); ok {
				ids.Add(id)
			} else {
				warnings = append(warnings, xsderrors.UndefinedPathWarning{
					Path:     string(attrPath),
					External: isExternalSchemaPath(string(attrPath)),
				})
			}
		}

		for _, child := range n.Children {
			walk(child, elementPath.Child(child.Name.Local))
		}
	}

	walk(doc.Root, pathmodel.ElementPath(doc.Root.Name.Local))
	return ids, warnings
}

func idsToPaths(ground *pathmodel.GroundSet, ids *roaring.Bitmap) []pathmodel.Path {
	out := make([]pathmodel.Path, 0, ids.GetCardinality())
	it := ids.Iterator()
	for it.HasNext() {
		out = append(out, ground.PathAt(it.Next()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
