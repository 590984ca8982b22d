// Package pathmodel implements the Path Enumerator and Constraint Extractor
// (components B and C): it walks a compiled schema.Model, bounded by
// maxDepth, to produce the ground set of element/attribute paths (§3) and
// the parent/required/choice relationships over them that the SMT encoder,
// greedy optimizer, and materializer all consume.
//
// Ground sets are kept as dense integer ids backed by
// github.com/RoaringBitmap/roaring bitmaps, grounded on
// agentic-research-mache's sqlite_graph.go pendingRefs usage, so that
// set-cover gain computation and pairwise coverage bookkeeping never
// materialize intermediate sets.
package pathmodel
