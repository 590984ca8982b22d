// Package greedy implements the Snippet Generator and greedy Set-Cover
// Optimizer (component E and its optimizer, §4.E). Candidate snippets are
// built in parallel over a bounded worker pool, each scored against the
// ground set with a roaring.Bitmap, and the optimizer repeatedly picks the
// snippet with the largest marginal gain until the target coverage,
// maxFiles, or a zero-gain round is reached.
package greedy
