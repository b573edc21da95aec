// Package catalog holds the read-only set of built-in and community form
// templates. Catalogs are validated once at construction and never mutated
// afterwards; the bundled documents under data/ back Default.
package catalog
