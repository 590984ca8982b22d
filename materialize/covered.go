package materialize

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/miwamasa/xsdcoverage/pathmodel"
)

// CoveredPaths walks a materialized tree and returns the bitmap of ground
// ids it touches, for the snippet generator's set-cover gain computation
// (§4.E): this is the same walk the coverage measurer does over a parsed
// input document, run here over a tree we just built ourselves.
func CoveredPaths(root *Node, rootName string, ground *pathmodel.GroundSet) *roaring.Bitmap {
	ids := roaring.New()
	if root == nil {
		return ids
	}

	var walk func(n *Node, elementPath pathmodel.Path)
	walk = func(n *Node, elementPath pathmodel.Path) {
		if id, ok := ground.ID(elementPath); ok {
			ids.Add(id)
		}
		for _, a := range n.Attrs {
			if id, ok := ground.ID(elementPath.AttrPath(a.Name)); ok {
				ids.Add(id)
			}
		}
		for _, c := range n.Children {
			walk(c, elementPath.Child(c.Local))
		}
	}

	walk(root, pathmodel.ElementPath(rootName))
	return ids
}
