package formtemplate

import (
	"io/fs"

	"github.com/goliatone/go-formtemplate/pkg/catalog"
	"github.com/goliatone/go-formtemplate/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in html preview templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// EmbeddedCatalog exposes the catalog documents compiled into the binary.
func EmbeddedCatalog() fs.FS {
	return catalog.EmbeddedFS()
}
