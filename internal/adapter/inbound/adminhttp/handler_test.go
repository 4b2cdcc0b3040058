package adminhttp_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/raml2graphql/internal/adapter/inbound/adminhttp"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/graphql"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/memrepo"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/raml"
	"github.com/i2y/raml2graphql/internal/domain"
	"github.com/i2y/raml2graphql/internal/usecase"
)

const widgetsRAML = `#%RAML 1.0
title: Widgets
/widgets:
  displayName: Widgets
  get:
    queryParameters:
      limit:
        type: integer
        required: true
  /{widgetId}:
    get:
`

const widgetsSchema = `# title: Widgets
# version: 
# protocols: 
# baseUri: 

type Query {
widgets # Widgets
  widgets(widgetId)
}
`

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widgets.raml")
	require.NoError(t, os.WriteFile(path, []byte(widgetsRAML), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memrepo.NewInMemorySchemaRepository(logger)
	convertUC := usecase.NewConvertSchemaUseCase(
		map[domain.SchemaType]usecase.SchemaFetcher{
			domain.SchemaTypeRAML: raml.NewSchemaFetcher(nil, logger),
		},
		graphql.NewGenerator(logger), repo, logger)
	listUC := usecase.NewListSchemasUseCase(repo, logger)

	mux := http.NewServeMux()
	adminhttp.NewHandlers(convertUC, listUC, logger).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, path
}

func postConvert(t *testing.T, server *httptest.Server, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(server.URL+"/admin/convert", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func get(t *testing.T, target string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestHandlers_ConvertAndRead(t *testing.T) {
	server, path := newTestServer(t)

	body, err := json.Marshal(adminhttp.ConvertRequest{Source: path})
	require.NoError(t, err)
	resp, text := postConvert(t, server, string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode, text)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, widgetsSchema, text)

	resp, listing := get(t, server.URL+"/schemas")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summaries []adminhttp.SchemaSummary
	require.NoError(t, json.Unmarshal([]byte(listing), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, path, summaries[0].Source)
	assert.Equal(t, domain.SchemaTypeRAML, summaries[0].Type)
	assert.Equal(t, 2, summaries[0].FieldCount)

	resp, stored := get(t, server.URL+"/schemas/text?source="+url.QueryEscape(path))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, widgetsSchema, stored)

	resp, raw := get(t, server.URL+"/schemas/structure?source="+url.QueryEscape(path))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var structure domain.APIStructure
	require.NoError(t, json.Unmarshal([]byte(raw), &structure))
	assert.Equal(t, []domain.FieldDescriptor{
		{QueryName: "widgets", Args: []domain.Argument{{Name: "limit", Type: "Int", Required: true}}, DisplayName: "Widgets"},
		{QueryName: "widgets", Args: []domain.Argument{{Name: "widgetId", Type: "String", Required: true}}, Level: 1},
	}, structure.Resources)
	assert.Contains(t, raw, `["title",["Widgets"]]`)
}

func TestHandlers_ConvertErrors(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "invalid json", body: "{", wantStatus: http.StatusBadRequest, wantBody: "Invalid request body"},
		{name: "missing source", body: `{}`, wantStatus: http.StatusBadRequest, wantBody: "Invalid request: source: required"},
		{name: "unknown type", body: `{"source":"a.wsdl","type":"soap"}`, wantStatus: http.StatusBadRequest, wantBody: "type: oneof"},
		{name: "no fetcher for type", body: `{"source":"spec.yaml"}`, wantStatus: http.StatusBadRequest, wantBody: "unsupported schema type"},
		{name: "unreadable file", body: `{"source":"/does/not/exist.raml"}`, wantStatus: http.StatusInternalServerError, wantBody: "Failed to convert schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postConvert(t, server, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, body, tt.wantBody)
		})
	}
}

func TestHandlers_ReadErrors(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "unknown text", path: "/schemas/text?source=unknown.raml", wantStatus: http.StatusNotFound},
		{name: "unknown structure", path: "/schemas/structure?source=unknown.raml", wantStatus: http.StatusNotFound},
		{name: "missing source", path: "/schemas/text", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, server.URL+tt.path)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHandlers_Health(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := get(t, server.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", body)

	resp, _ = get(t, server.URL+"/schemas")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
