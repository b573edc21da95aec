// Package template declares the template execution contract used by the HTML
// preview renderer. The pongo subpackage provides the default engine.
package template
