// Package tui provides an interactive terminal preview of a form template
// backed by survey prompts.
package tui
