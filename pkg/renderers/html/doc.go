// Package html renders a read-only HTML preview of a form template using
// pongo2 templates. Fields whose conditions are not met are either dropped
// or emitted with the hidden attribute, depending on the render options.
package html
