package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestListAndSearch(t *testing.T) {
	isolate(t)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "new-patient-intake")
	assert.Contains(t, out, "ID")

	out, err = run(t, "search", "cardiac")
	require.NoError(t, err)
	assert.Contains(t, out, "cardiology-chest-pain")
	assert.NotContains(t, out, "new-patient-intake")

	out, err = run(t, "search", "--community", "--sort", "newest")
	require.NoError(t, err)
	assert.Contains(t, out, "community-")

	_, err = run(t, "community", "--sort", "cheapest")
	require.Error(t, err)
}

func TestMaterializeAndPreview(t *testing.T) {
	isolate(t)

	out, err := run(t, "materialize", "mental-health-screening")
	require.NoError(t, err)
	var questions []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	assert.NotEmpty(t, questions)

	out, err = run(t, "preview", "new-patient-intake", "--response", "firstName=Ada")
	require.NoError(t, err)
	assert.Contains(t, out, "New Patient Comprehensive Intake\n")
	assert.Contains(t, out, "  answer: Ada\n")

	out, err = run(t, "preview", "new-patient-intake", "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<form")

	_, err = run(t, "preview", "missing")
	require.Error(t, err)
	_, err = run(t, "preview", "new-patient-intake", "--response", "no-equals")
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	isolate(t)

	out, err := run(t, "export", "new-patient-intake")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "object", schema["type"])

	out, err = run(t, "export", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, `"openapi": "3.0.3"`)
}

func TestValidateDirectory(t *testing.T) {
	dir := isolate(t)

	good := filepath.Join(dir, "good")
	require.NoError(t, os.MkdirAll(good, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(good, "catalog.yaml"), []byte(`
templates:
- id: quick
  name: Quick check
  category: screening
  sections:
  - id: s
    fields:
    - id: ok
      type: radio
      label: Feeling ok?
      options: ["Yes", "No"]
`), 0o600))

	out, err := run(t, "validate", "--dir", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 1 templates, 0 community templates")

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "catalog.yaml"), []byte(`
templates:
- id: broken
  name: Broken
  category: nonsense
  sections: []
`), 0o600))

	out, err = run(t, "validate", "--dir", bad)
	require.Error(t, err)
	assert.Contains(t, out, "broken")

	out, err = run(t, "--catalog-dir", good, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "quick")
}

func TestShare(t *testing.T) {
	isolate(t)

	out, err := run(t, "share", "mental-health-screening", "--author", "Dr. Ada", "--tag", " mood ", "--tag", "mood", "--category", "screening")
	require.NoError(t, err)
	var submission map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &submission))
	assert.Equal(t, "published", submission["status"])
	assert.Equal(t, []any{"mood"}, submission["tags"])

	_, err = run(t, "share", "mental-health-screening")
	require.Error(t, err, "author is required")
}

func TestPatientsSearch(t *testing.T) {
	isolate(t)

	out, err := run(t, "--dsn", ":memory:", "patients", "search", "--filter", "critical")
	require.NoError(t, err)
	var found []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Robert Wilson", found[0]["name"])
}
