package openapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/raml2graphql/internal/domain"
)

// SchemaFetcher implements the usecase.SchemaFetcher interface for OpenAPI documents.
type SchemaFetcher struct {
	httpClient     *http.Client
	logger         *slog.Logger
	autoDiscoverer *AutoDiscoverer
}

// NewSchemaFetcher creates a new OpenAPI SchemaFetcher.
func NewSchemaFetcher(client *http.Client, logger *slog.Logger) *SchemaFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &SchemaFetcher{
		httpClient:     client,
		logger:         logger.With("component", "openapi_fetcher"),
		autoDiscoverer: NewAutoDiscoverer(client, logger),
	}
}

// Fetch loads an OpenAPI document from a URL or local file path and
// projects its paths onto a resource tree.
func (f *SchemaFetcher) Fetch(ctx context.Context, source domain.SchemaSource) (domain.APIDocument, error) {
	log := f.logger.With(slog.String("source", source.URL))
	log.Info("Fetching OpenAPI document")

	resolved := f.autoDiscoverer.Resolve(ctx, source)
	if resolved != source.URL {
		log.Info("Auto-discovered OpenAPI document", slog.String("resolved_url", resolved))
	}

	rawData, err := f.read(ctx, log, resolved, source.Headers)
	if err != nil {
		return domain.APIDocument{}, err
	}

	doc, err := Load(ctx, rawData)
	if err != nil {
		log.Error("Failed to parse OpenAPI document", slog.Any("error", err))
		return domain.APIDocument{}, fmt.Errorf("failed to parse OpenAPI document from %s: %w", source.URL, err)
	}

	if validateErr := doc.Validate(ctx); validateErr != nil {
		log.Warn("OpenAPI document validation failed", slog.Any("validation_error", validateErr))
	}

	log.Info("Successfully fetched and parsed OpenAPI document", slog.Int("path_count", doc.Paths.Len()))
	return domain.APIDocument{
		Source:  source.URL,
		Type:    domain.SchemaTypeOpenAPI,
		RawData: rawData,
		Root:    ResourceTree(doc),
	}, nil
}

// Load parses OpenAPI JSON or YAML.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	return loader.LoadFromData(data)
}

func (f *SchemaFetcher) read(ctx context.Context, log *slog.Logger, src string, headers map[string]string) ([]byte, error) {
	u, parseErr := url.ParseRequestURI(src)
	if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
		log.Debug("Assuming local file path")
		data, err := os.ReadFile(src)
		if err != nil {
			log.Error("Failed to read OpenAPI document from file", slog.Any("error", err))
			return nil, fmt.Errorf("failed to read OpenAPI document from file %s: %w", src, err)
		}
		return data, nil
	}

	log.Debug("Fetching from URL", slog.Int("header_count", len(headers)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", src, err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Error("Failed to fetch OpenAPI document from URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch OpenAPI document from URL %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("Received non-OK status code from URL", slog.String("status", resp.Status), slog.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("failed to fetch OpenAPI document from URL %s: status %s", src, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", src, err)
	}
	return data, nil
}
