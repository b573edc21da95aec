// Package materialize converts structured templates into the flat question
// list edited by the form builder, and computes preview visibility for a set
// of in-progress responses.
//
// Field types map to question kinds through a Registry of prioritised rules.
// Fields no rule claims are skipped unless the FallbackFreeResponse policy is
// selected.
package materialize
