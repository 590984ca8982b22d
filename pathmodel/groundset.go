package pathmodel

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// GroundSet is the full E (element paths) and A (attribute paths) sets from
// §3, indexed by a dense id assigned in sorted-path order so the id space is
// reproducible regardless of the traversal order that discovered each path.
type GroundSet struct {
	paths []Path          // id -> path
	ids   map[Path]uint32 // path -> id

	Elements   *roaring.Bitmap // ids whose path is an element path
	Attributes *roaring.Bitmap // ids whose path is an attribute path
}

// newGroundSet builds a GroundSet from the (unordered, possibly duplicated)
// set of discovered paths.
func newGroundSet(discovered map[Path]bool) *GroundSet {
	paths := make([]Path, 0, len(discovered))
	for p := range discovered {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	gs := &GroundSet{
		paths:      paths,
		ids:        make(map[Path]uint32, len(paths)),
		Elements:   roaring.New(),
		Attributes: roaring.New(),
	}
	for i, p := range paths {
		id := uint32(i)
		gs.ids[p] = id
		if p.IsAttribute() {
			gs.Attributes.Add(id)
		} else {
			gs.Elements.Add(id)
		}
	}
	return gs
}

// ID returns p's dense id and true, or (0, false) if p is not in the
// ground set.
func (gs *GroundSet) ID(p Path) (uint32, bool) {
	id, ok := gs.ids[p]
	return id, ok
}

// MustID panics if p is not in the ground set; used where callers already
// derived p from the same walk that built gs.
func (gs *GroundSet) MustID(p Path) uint32 {
	id, ok := gs.ids[p]
	if !ok {
		panic("pathmodel: path not in ground set: " + string(p))
	}
	return id
}

// PathAt returns the path assigned to id.
func (gs *GroundSet) PathAt(id uint32) Path {
	return gs.paths[id]
}

// Len returns |E| + |A|.
func (gs *GroundSet) Len() int {
	return len(gs.paths)
}

// Universe returns a fresh bitmap containing every id in E ∪ A.
func (gs *GroundSet) Universe() *roaring.Bitmap {
	u := roaring.New()
	u.Or(gs.Elements)
	u.Or(gs.Attributes)
	return u
}

// Paths returns every path in ascending id order.
func (gs *GroundSet) Paths() []Path {
	return gs.paths
}

// BitmapOf returns a fresh bitmap containing the ids of every path in ps
// that belongs to the ground set; unknown paths are silently skipped.
func (gs *GroundSet) BitmapOf(ps []Path) *roaring.Bitmap {
	b := roaring.New()
	for _, p := range ps {
		if id, ok := gs.ids[p]; ok {
			b.Add(id)
		}
	}
	return b
}
