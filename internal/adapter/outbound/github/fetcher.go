package github

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/i2y/raml2graphql/internal/adapter/outbound/openapi"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/raml"
	"github.com/i2y/raml2graphql/internal/domain"
)

// FileClient retrieves raw file contents addressed by github:// URLs.
type FileClient interface {
	FetchFileRaw(ctx context.Context, githubURL string) ([]byte, error)
}

// Fetcher fetches RAML or OpenAPI documents from GitHub repositories.
type Fetcher struct {
	client FileClient
	logger *slog.Logger
}

// NewFetcher creates a new GitHub schema fetcher backed by the gh CLI.
func NewFetcher(logger *slog.Logger) *Fetcher {
	return NewFetcherWithClient(NewGHClient(), logger)
}

// NewFetcherWithClient creates a GitHub schema fetcher using client.
func NewFetcherWithClient(client FileClient, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger.With("component", "github_fetcher"),
	}
}

// Fetch retrieves a document from a GitHub repository. Files ending in
// .json, .yaml or .yml are read as OpenAPI; everything else as RAML.
func (f *Fetcher) Fetch(ctx context.Context, source domain.SchemaSource) (domain.APIDocument, error) {
	log := f.logger.With(slog.String("source", source.URL))

	if !IsGitHubURL(source.URL) {
		return domain.APIDocument{}, fmt.Errorf("not a GitHub URL: %s", source.URL)
	}

	log.Info("Fetching API description from GitHub")
	content, err := f.client.FetchFileRaw(ctx, source.URL)
	if err != nil {
		log.Error("Failed to fetch file from GitHub", slog.Any("error", err))
		return domain.APIDocument{}, fmt.Errorf("failed to fetch file from GitHub: %w", err)
	}

	doc := domain.APIDocument{Source: source.URL, RawData: content}
	if IsOpenAPIFile(source.URL) {
		parsed, err := openapi.Load(ctx, content)
		if err != nil {
			log.Error("Failed to parse OpenAPI document", slog.Any("error", err))
			return domain.APIDocument{}, fmt.Errorf("failed to parse OpenAPI document from %s: %w", source.URL, err)
		}
		if validateErr := parsed.Validate(ctx); validateErr != nil {
			log.Warn("OpenAPI document validation failed", slog.Any("validation_error", validateErr))
		}
		doc.Type = domain.SchemaTypeOpenAPI
		doc.Root = openapi.ResourceTree(parsed)
	} else {
		root, err := raml.Parse(content)
		if err != nil {
			log.Error("Failed to parse RAML document", slog.Any("error", err))
			return domain.APIDocument{}, fmt.Errorf("failed to parse RAML document from %s: %w", source.URL, err)
		}
		doc.Type = domain.SchemaTypeRAML
		doc.Root = root
	}

	log.Info("Successfully fetched and parsed document from GitHub", slog.String("type", string(doc.Type)))
	return doc, nil
}

// IsOpenAPIFile reports whether the file addressed by source has an OpenAPI
// extension. A trailing @ref is ignored.
func IsOpenAPIFile(source string) bool {
	if ref, err := ParseURL(source); err == nil {
		source = ref.Path
	}
	switch strings.ToLower(path.Ext(source)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadGitHubConfig loads a configuration file from GitHub.
func LoadGitHubConfig(githubURL string) ([]byte, error) {
	if !IsGitHubURL(githubURL) {
		return nil, fmt.Errorf("not a GitHub URL: %s", githubURL)
	}

	content, err := NewGHClient().FetchFileRaw(context.Background(), githubURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch config from GitHub: %w", err)
	}
	return content, nil
}
