// Package template defines the declarative clinical form model: templates made
// of ordered sections, sections made of ordered fields, plus the community
// variant that embeds a template and adds authorship, popularity, and sharing
// metadata. Validate runs the load-time checks catalog constructors rely on,
// including the rule that a conditional field may only depend on a field that
// precedes it.
package template
