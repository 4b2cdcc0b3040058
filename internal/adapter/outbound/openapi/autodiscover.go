package openapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i2y/raml2graphql/internal/domain"
)

// Common OpenAPI document paths used by various frameworks
var commonOpenAPIPaths = []string{
	"/openapi.json",            // FastAPI default
	"/docs/openapi.json",       // Alternative FastAPI path
	"/swagger.json",            // Swagger/OpenAPI 2.0
	"/v3/api-docs",             // SpringDoc OpenAPI 3.0
	"/api-docs",                // SpringFox
	"/api/openapi.json",        // Custom API prefix
	"/api/v1/openapi.json",     // Versioned API
	"/swagger/v1/swagger.json", // .NET default
	"/openapi.yaml",
}

// probeTimeout bounds each discovery request.
const probeTimeout = 5 * time.Second

// AutoDiscoverer finds OpenAPI documents behind base URLs.
type AutoDiscoverer struct {
	client *http.Client
	logger *slog.Logger
}

// NewAutoDiscoverer creates a new OpenAPI document auto-discoverer.
func NewAutoDiscoverer(client *http.Client, logger *slog.Logger) *AutoDiscoverer {
	return &AutoDiscoverer{
		client: client,
		logger: logger.With("component", "openapi_autodiscoverer"),
	}
}

// Resolve returns the URL to load for source. Sources that already look like
// a document, and non-HTTP sources, are returned unchanged. For a base URL
// the common document paths are probed; if none answers, the original
// source is returned.
func (d *AutoDiscoverer) Resolve(ctx context.Context, source domain.SchemaSource) string {
	u, err := url.ParseRequestURI(source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || looksLikeDocument(u.Path) {
		return source.URL
	}

	log := d.logger.With(slog.String("base_url", source.URL))
	log.Info("Source appears to be a base URL, attempting auto-discovery")
	found, err := d.Discover(ctx, source.URL, source.Headers)
	if err != nil {
		log.Warn("Auto-discovery failed, using original source", slog.Any("error", err))
		return source.URL
	}
	return found
}

// Discover probes the common document paths under baseURL.
func (d *AutoDiscoverer) Discover(ctx context.Context, baseURL string, headers map[string]string) (string, error) {
	for _, path := range commonOpenAPIPaths {
		candidate := strings.TrimRight(baseURL, "/") + path
		ok, err := d.probe(ctx, candidate, headers)
		if err != nil {
			d.logger.Debug("Failed to check endpoint", slog.String("url", candidate), slog.Any("error", err))
			continue
		}
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no OpenAPI document found at base URL: %s", baseURL)
}

func (d *AutoDiscoverer) probe(ctx context.Context, candidate string, headers map[string]string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json, application/vnd.oai.openapi+json, application/yaml")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	contentType := resp.Header.Get("Content-Type")
	return strings.Contains(contentType, "json") || strings.Contains(contentType, "yaml"), nil
}

func looksLikeDocument(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return strings.Contains(lower, "openapi") ||
		strings.Contains(lower, "swagger") ||
		strings.Contains(lower, "api-docs")
}
