package raml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/i2y/raml2graphql/internal/domain"
)

// header is the first line every RAML document is expected to carry.
var header = []byte("#%RAML")

// SchemaFetcher implements the usecase.SchemaFetcher interface for RAML documents.
type SchemaFetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSchemaFetcher creates a new RAML SchemaFetcher.
func NewSchemaFetcher(client *http.Client, logger *slog.Logger) *SchemaFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &SchemaFetcher{
		httpClient: client,
		logger:     logger.With("component", "raml_fetcher"),
	}
}

// Fetch loads a RAML document from a URL or local file path and parses it.
// Headers in source are only sent for http(s) URLs.
func (f *SchemaFetcher) Fetch(ctx context.Context, source domain.SchemaSource) (domain.APIDocument, error) {
	log := f.logger.With(slog.String("source", source.URL))
	log.Info("Fetching RAML document")

	rawData, err := f.read(ctx, log, source)
	if err != nil {
		return domain.APIDocument{}, err
	}

	if !bytes.HasPrefix(bytes.TrimSpace(rawData), header) {
		log.Warn("Document does not start with a #%RAML header, parsing anyway")
	}

	root, err := Parse(rawData)
	if err != nil {
		log.Error("Failed to parse RAML document", slog.Any("error", err))
		return domain.APIDocument{}, fmt.Errorf("failed to parse RAML document from %s: %w", source.URL, err)
	}

	log.Info("Successfully fetched and parsed RAML document",
		slog.Int("resource_count", len(root.ElementsOfKind(domain.KindResources))))
	return domain.APIDocument{
		Source:  source.URL,
		Type:    domain.SchemaTypeRAML,
		RawData: rawData,
		Root:    root,
	}, nil
}

func (f *SchemaFetcher) read(ctx context.Context, log *slog.Logger, source domain.SchemaSource) ([]byte, error) {
	u, parseErr := url.ParseRequestURI(source.URL)
	if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
		log.Debug("Assuming local file path")
		data, err := os.ReadFile(source.URL)
		if err != nil {
			log.Error("Failed to read RAML document from file", slog.Any("error", err))
			return nil, fmt.Errorf("failed to read RAML document from file %s: %w", source.URL, err)
		}
		return data, nil
	}

	log.Debug("Fetching from URL", slog.Int("header_count", len(source.Headers)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", source.URL, err)
	}
	for key, value := range source.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Error("Failed to fetch RAML document from URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch RAML document from URL %s: %w", source.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("Received non-OK status code from URL", slog.String("status", resp.Status), slog.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("failed to fetch RAML document from URL %s: status %s", source.URL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", source.URL, err)
	}
	return data, nil
}
