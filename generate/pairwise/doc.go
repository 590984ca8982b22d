// Package pairwise implements the Optional Extractor and Pairwise Engine
// (component G): it lists the schema's optional items (minOccurs=0
// elements, optional attributes, choice branches), then greedily builds a
// 2-way covering array over them with a seeded math/rand generator,
// tracking covered/uncovered pairs as a roaring.Bitmap over a dense
// (i,j,vi,vj) encoding. Choice alternatives are tracked by group so a
// candidate never keeps more than one alternative true per group, and the
// (true, true) pair within a group is dropped from the coverage target
// rather than counted as permanently uncovered.
package pairwise
