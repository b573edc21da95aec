// Package builder implements the caller-owned form editing session: the flat
// question list a clinician edits after starting from a blank form or a
// catalog template, and the conversion of that list back into a template
// that can be shared with the community.
package builder
