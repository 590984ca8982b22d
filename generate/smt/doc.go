// Package smt implements the SMT Encoder/Solver Interface (component F):
// it builds a deterministic boolean encoding of the generation problem
// over github.com/mitchellh/go-z3 and greedily maximizes the count of
// true path variables subject to the hierarchy/required/choice/depth hard
// clauses, using the solver's own incremental Push/Pop/Check cycle rather
// than a separate optimizing solver object.
//
// Grounded on bunji2-smtrun/main.go's Config/Context/variable-table/Check/
// Model.Assignments pattern, generalized from a flat SMT-LIB variable
// table to a deterministic path-id variable table.
package smt
