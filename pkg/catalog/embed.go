package catalog

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed data/*
var embeddedData embed.FS

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// EmbeddedFS returns the bundled template documents.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default returns the catalog built from the bundled documents. It is loaded
// once and shared; accessors hand out copies so sharing is safe.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadFS(EmbeddedFS())
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for program start-up paths.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}
