package httpapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formtemplate/internal/httpapi"
	"github.com/goliatone/go-formtemplate/internal/testhelpers"
	"github.com/goliatone/go-formtemplate/pkg/orchestrator"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

func newServer(t *testing.T, withPatients bool) *httpapi.Server {
	t.Helper()
	var opts []httpapi.Option
	if withPatients {
		opts = append(opts, httpapi.WithPatients(testhelpers.NewSeededStore(t)))
	}
	return httpapi.New(orchestrator.New(), opts...)
}

func do(t *testing.T, s *httpapi.Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, body
}

func getJSON(t *testing.T, s *httpapi.Server, path string, wantStatus int, dest any) {
	t.Helper()
	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, wantStatus, resp.StatusCode, string(body))
	if dest != nil {
		require.NoError(t, json.Unmarshal(body, dest), string(body))
	}
}

func TestTemplatesRoutes(t *testing.T) {
	s := newServer(t, false)

	var all []template.FormTemplate
	getJSON(t, s, "/templates", http.StatusOK, &all)
	assert.Len(t, all, 10)

	var filtered []template.FormTemplate
	getJSON(t, s, "/templates?category=screening", http.StatusOK, &filtered)
	require.NotEmpty(t, filtered)
	for _, tpl := range filtered {
		assert.Equal(t, template.CategoryScreening, tpl.Category)
	}

	var one template.FormTemplate
	getJSON(t, s, "/templates/new-patient-intake", http.StatusOK, &one)
	assert.Equal(t, "New Patient Comprehensive Intake", one.Name)

	var failure map[string]string
	getJSON(t, s, "/templates/missing", http.StatusNotFound, &failure)
	assert.Contains(t, failure["error"], "template not found")

	var questions []map[string]any
	getJSON(t, s, "/templates/new-patient-intake/questions", http.StatusOK, &questions)
	require.NotEmpty(t, questions)
	assert.Equal(t, "0-0", questions[0]["id"])

	var schema map[string]any
	getJSON(t, s, "/templates/new-patient-intake/schema", http.StatusOK, &schema)
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["required"], "firstName")

	var doc map[string]any
	getJSON(t, s, "/openapi.json", http.StatusOK, &doc)
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestPreviewRoute(t *testing.T) {
	s := newServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/templates/new-patient-intake/preview",
		strings.NewReader(`{"responses": {"firstName": "Ada"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := do(t, s, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var preview httpapi.PreviewResponse
	require.NoError(t, json.Unmarshal(body, &preview))
	assert.Equal(t, "new-patient-intake", preview.TemplateID)
	require.NotEmpty(t, preview.Sections)
	assert.Equal(t, "Ada", preview.Sections[0].Fields[0].Response)

	req = httptest.NewRequest(http.MethodPost, "/templates/new-patient-intake/preview?format=html", nil)
	resp, body = do(t, s, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "<form")

	req = httptest.NewRequest(http.MethodPost, "/templates/new-patient-intake/preview?format=pdf", nil)
	resp, _ = do(t, s, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommunityRoutes(t *testing.T) {
	s := newServer(t, false)

	var items []template.CommunityTemplate
	getJSON(t, s, "/community?sort=rating", http.StatusOK, &items)
	require.Len(t, items, 6)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Stats.Rating, items[i].Stats.Rating)
	}

	getJSON(t, s, "/community?sort=cheapest", http.StatusBadRequest, nil)

	var one template.CommunityTemplate
	getJSON(t, s, "/community/"+items[0].ID, http.StatusOK, &one)
	assert.Equal(t, items[0].ID, one.ID)
	getJSON(t, s, "/community/new-patient-intake", http.StatusNotFound, nil)

	var facets httpapi.Facets
	getJSON(t, s, "/facets", http.StatusOK, &facets)
	assert.Equal(t, "all", facets.Categories[0])
	assert.Equal(t, "all", facets.Specialties[0])
	assert.Len(t, facets.SortKeys, 3)
	assert.Len(t, facets.PatientChips, 10)
}

func TestPatientRoutes(t *testing.T) {
	s := newServer(t, true)

	var found []map[string]any
	getJSON(t, s, "/patients?filter=active&filter=critical", http.StatusOK, &found)
	require.Len(t, found, 3)
	assert.Equal(t, "Emily Davis", found[0]["name"])

	getJSON(t, s, "/patients?q=eczema", http.StatusOK, &found)
	require.Len(t, found, 1)

	id, _ := found[0]["id"].(string)
	var one map[string]any
	getJSON(t, s, "/patients/"+id, http.StatusOK, &one)
	assert.Equal(t, "Sarah Johnson", one["name"])
	getJSON(t, s, "/patients/nobody", http.StatusNotFound, nil)

	disabled := newServer(t, false)
	getJSON(t, disabled, "/patients", http.StatusServiceUnavailable, nil)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	s := newServer(t, false)
	getJSON(t, s, "/healthz", http.StatusOK, nil)
	getJSON(t, s, "/nope", http.StatusNotFound, nil)
}
