// Package render defines the preview renderer contract, a registry to look
// renderers up by name, and helpers shared by renderer implementations:
// section grouping of visible fields and normalisation of raw responses.
package render
