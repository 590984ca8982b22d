// Package errors defines the typed error taxonomy shared by every component
// of the schema coverage pipeline. Each type follows the same shape as the
// teacher's ValidationError: a struct carrying structured fields plus an
// Error() string rendering, so callers can use errors.As to recover the
// typed cause instead of matching on message text.
package errors

import (
	"fmt"
	"strings"
)

// SchemaParseError reports a malformed XSD, an unresolved type reference, or
// a cyclic type definition found while loading a schema. Fatal: the caller
// must stop the run.
type SchemaParseError struct {
	Reason   string
	Location string
}

func (e *SchemaParseError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("schema parse error: %s", e.Reason)
	}
	return fmt.Sprintf("schema parse error at %s: %s", e.Location, e.Reason)
}

// EnumerationError reports an internal invariant violated while walking the
// schema to build the ground set, such as a missing referenced type name.
// Fatal: indicates a bug in the enumerator or a schema it cannot model.
type EnumerationError struct {
	Path   string
	Reason string
}

func (e *EnumerationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("enumeration error: %s", e.Reason)
	}
	return fmt.Sprintf("enumeration error at %s: %s", e.Path, e.Reason)
}

// XMLParseError reports a failure parsing one input XML document during
// coverage measurement. Per-file: the caller continues with the rest of the
// batch and records this in the summary.
type XMLParseError struct {
	File   string
	Reason string
}

func (e *XMLParseError) Error() string {
	return fmt.Sprintf("xml parse error in %s: %s", e.File, e.Reason)
}

// UndefinedPathWarning reports a path found in an XML document that is not
// present in the schema's ground set. Non-fatal: logged in the coverage
// report, never returned as a blocking error. External distinguishes a
// path that only looks undefined because it belongs to an externally
// imported schema (e.g. an XML Digital Signature element under a
// /Signature/ ancestor) from one that is genuinely absent from every
// schema the document could plausibly reference.
type UndefinedPathWarning struct {
	Path     string
	File     string
	External bool
}

func (w *UndefinedPathWarning) Error() string {
	if w.External {
		return fmt.Sprintf("path %s in %s belongs to an externally imported schema, not the one being measured", w.Path, w.File)
	}
	return fmt.Sprintf("path %s in %s is not defined by the schema", w.Path, w.File)
}

// GenerationErrorKind distinguishes the two ways the SMT strategy can fail
// to produce a usable model.
type GenerationErrorKind int

const (
	// Infeasible means the solver returned unsat: the hard clauses built
	// from the constraint set are contradictory.
	Infeasible GenerationErrorKind = iota
	// Timeout means the solver exhausted its time budget before reaching
	// sat or unsat and no best-known assignment was available.
	Timeout
)

// GenerationError reports a failure of the SMT generation strategy.
type GenerationError struct {
	Kind            GenerationErrorKind
	UnsatCore       []string
	BestCoveragePct float64
	HasBestCoverage bool
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case Infeasible:
		if len(e.UnsatCore) > 0 {
			return fmt.Sprintf("generation infeasible (unsat core: %s)", strings.Join(e.UnsatCore, ", "))
		}
		return "generation infeasible: constraints are contradictory"
	case Timeout:
		if e.HasBestCoverage {
			return fmt.Sprintf("generation timed out (best known coverage %.2f%%)", e.BestCoveragePct)
		}
		return "generation timed out with no best-known assignment"
	default:
		return "generation error"
	}
}

// MaterializationWarning reports that a required descendant was omitted
// because the max-depth emergency-descent cap (see materialize package) was
// reached. Logged once per produced XML file, never returned as an error.
type MaterializationWarning struct {
	File    string
	Omitted []string
}

func (w *MaterializationWarning) Error() string {
	return fmt.Sprintf("%s: omitted %d required descendant(s) at the max-depth emergency-descent cap: %s",
		w.File, len(w.Omitted), strings.Join(w.Omitted, ", "))
}

// ValidationFailure reports that a produced (or supplied) XML document
// failed to validate against its own schema. Emitted by the validator
// subcommand, never by a generation strategy.
type ValidationFailure struct {
	File       string
	FirstError string
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("%s: invalid: %s", e.File, e.FirstError)
}

// List aggregates multiple errors of any kind into one error value, in the
// teacher's ValidationError shape.
type List []error

func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d error(s):\n - %s", len(l), strings.Join(parts, "\n - "))
}
