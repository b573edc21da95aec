// Package query filters and sorts catalog listings. Every function here is
// pure: inputs are never modified and results are fresh slices.
package query
