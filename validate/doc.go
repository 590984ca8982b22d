// Package validate implements the validator subcommand's structural
// check: a produced or supplied XML document is walked alongside the
// schema's particle tree, confirming every required element/attribute is
// present, every present element is permitted by its parent's content
// model, and every Choice has exactly one realized alternative.
//
// moolekkari-validatexml-go's own validations.go/validation_helpers.go
// describe the same recursive-descent-against-the-schema shape (walk the
// document tree, consult the matching schema node at each level); this
// package follows that shape against the compiled schema.Model and the
// coverage.Document tree rather than those files' own narrower
// element/attribute types.
package validate
