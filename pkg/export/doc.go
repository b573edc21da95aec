// Package export describes form submissions as OpenAPI 3 schemas so clients
// outside this module can validate payloads collected from a template.
package export
