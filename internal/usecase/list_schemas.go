package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/i2y/raml2graphql/internal/domain"
)

// ListSchemasUseCase provides read access to stored conversions.
type ListSchemasUseCase struct {
	repository SchemaRepository
	logger     *slog.Logger
}

// NewListSchemasUseCase creates a new ListSchemasUseCase.
func NewListSchemasUseCase(repository SchemaRepository, logger *slog.Logger) *ListSchemasUseCase {
	return &ListSchemasUseCase{
		repository: repository,
		logger:     logger.With("usecase", "ListSchemas"),
	}
}

// Execute retrieves all conversions currently stored in the repository.
func (uc *ListSchemasUseCase) Execute(ctx context.Context) ([]domain.ConvertedSchema, error) {
	uc.logger.Info("Listing converted schemas")
	schemas, err := uc.repository.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list schemas from repository", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list schemas from repository: %w", err)
	}
	uc.logger.Info("Successfully listed schemas", slog.Int("count", len(schemas)))
	return schemas, nil
}

// Find retrieves the conversion of one source. It returns ErrSchemaNotFound
// when the source has not been converted.
func (uc *ListSchemasUseCase) Find(ctx context.Context, source string) (*domain.ConvertedSchema, error) {
	log := uc.logger.With(slog.String("source", source))
	schema, err := uc.repository.FindBySource(ctx, source)
	if err != nil {
		if errors.Is(err, ErrSchemaNotFound) {
			log.Warn("Schema not found")
		} else {
			log.Error("Failed to find schema", slog.Any("error", err))
		}
		return nil, fmt.Errorf("failed to find schema %s: %w", source, err)
	}
	return schema, nil
}
