package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/i2y/raml2graphql/internal/domain"
)

const tracerName = "github.com/i2y/raml2graphql/internal/usecase"

// ConvertSchemaUseCase orchestrates fetching an API description, generating
// its GraphQL Query schema and storing the result.
type ConvertSchemaUseCase struct {
	fetchers   map[domain.SchemaType]SchemaFetcher
	generator  SchemaGenerator
	repository SchemaRepository
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewConvertSchemaUseCase creates a new ConvertSchemaUseCase.
// It requires fetchers keyed by schema type, a generator and a repository.
func NewConvertSchemaUseCase(
	fetchers map[domain.SchemaType]SchemaFetcher,
	generator SchemaGenerator,
	repository SchemaRepository,
	logger *slog.Logger,
) *ConvertSchemaUseCase {
	return &ConvertSchemaUseCase{
		fetchers:   fetchers,
		generator:  generator,
		repository: repository,
		tracer:     otel.Tracer(tracerName),
		logger:     logger.With("usecase", "ConvertSchema"),
	}
}

// DetectSchemaType picks the fetcher type for source. An explicit type wins;
// otherwise github:// URLs go to GitHub, .raml files to RAML, .json, .yaml
// and .yml to OpenAPI, and anything else to RAML.
func DetectSchemaType(source domain.SchemaSource) domain.SchemaType {
	if source.Type != "" {
		return source.Type
	}
	if strings.HasPrefix(source.URL, "github://") {
		return domain.SchemaTypeGitHub
	}

	p := source.URL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return domain.SchemaTypeOpenAPI
	default:
		return domain.SchemaTypeRAML
	}
}

// Execute fetches source, renders and gathers its Query schema, saves the
// conversion and returns it.
func (uc *ConvertSchemaUseCase) Execute(ctx context.Context, source domain.SchemaSource) (domain.ConvertedSchema, error) {
	schemaType := DetectSchemaType(source)
	log := uc.logger.With(slog.String("source", source.URL), slog.String("schema_type", string(schemaType)))

	ctx, span := uc.tracer.Start(ctx, "ConvertSchema", trace.WithAttributes(
		attribute.String("schema.source", source.URL),
		attribute.String("schema.type", string(schemaType)),
	))
	defer span.End()

	converted, err := uc.convert(ctx, log, source, schemaType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.ConvertedSchema{}, err
	}
	span.SetAttributes(attribute.Int("graphql.field_count", len(converted.Structure.Resources)))
	return converted, nil
}

func (uc *ConvertSchemaUseCase) convert(ctx context.Context, log *slog.Logger, source domain.SchemaSource, schemaType domain.SchemaType) (domain.ConvertedSchema, error) {
	log.Info("Starting schema conversion")

	// 1. Fetch and parse
	fetcher, ok := uc.fetchers[schemaType]
	if !ok {
		log.Error("No schema fetcher available for source")
		return domain.ConvertedSchema{}, fmt.Errorf("no schema fetcher for %s: %w", schemaType, ErrUnsupportedSchemaType)
	}

	doc, err := fetcher.Fetch(ctx, source)
	if err != nil {
		log.Error("Failed to fetch schema", slog.Any("error", err))
		return domain.ConvertedSchema{}, fmt.Errorf("failed to fetch schema from %s: %w", source.URL, err)
	}
	if doc.Root == nil {
		log.Error("Fetcher returned a document without a resource tree")
		return domain.ConvertedSchema{}, fmt.Errorf("schema from %s has no resource tree", source.URL)
	}
	if doc.Type == "" {
		doc.Type = schemaType
	}
	log.Info("Schema fetched successfully", slog.String("document_type", string(doc.Type)))

	// 2. Render and gather from the same tree
	text, err := uc.generator.Render(doc.Root)
	if err != nil {
		log.Error("Failed to render schema", slog.Any("error", err))
		return domain.ConvertedSchema{}, fmt.Errorf("failed to render schema for %s: %w", source.URL, err)
	}
	structure, err := uc.generator.Gather(doc.Root)
	if err != nil {
		log.Error("Failed to gather schema structure", slog.Any("error", err))
		return domain.ConvertedSchema{}, fmt.Errorf("failed to gather schema structure for %s: %w", source.URL, err)
	}

	// 3. Save
	converted := domain.ConvertedSchema{
		Source:      source.URL,
		Type:        doc.Type,
		Text:        text,
		Structure:   structure,
		ConvertedAt: time.Now().UTC(),
	}
	if err := uc.repository.Save(ctx, converted); err != nil {
		log.Error("Failed to save converted schema", slog.Any("error", err))
		return domain.ConvertedSchema{}, fmt.Errorf("failed to save converted schema: %w", err)
	}

	log.Info("Successfully converted schema", slog.Int("field_count", len(structure.Resources)))
	return converted, nil
}

// ConvertAll converts every source in order. A failing source does not stop
// the others; all failures are returned joined.
func (uc *ConvertSchemaUseCase) ConvertAll(ctx context.Context, sources []domain.SchemaSource) ([]domain.ConvertedSchema, error) {
	converted := make([]domain.ConvertedSchema, 0, len(sources))
	var errs []error
	for _, source := range sources {
		schema, err := uc.Execute(ctx, source)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		converted = append(converted, schema)
	}
	if len(errs) > 0 {
		uc.logger.Warn("Some sources failed to convert",
			slog.Int("failed", len(errs)),
			slog.Int("succeeded", len(converted)))
	}
	return converted, errors.Join(errs...)
}
