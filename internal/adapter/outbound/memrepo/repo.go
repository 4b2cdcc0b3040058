package memrepo

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/i2y/raml2graphql/internal/domain"
	"github.com/i2y/raml2graphql/internal/usecase"
)

// InMemorySchemaRepository provides an in-memory implementation of the SchemaRepository.
// NOTE: This implementation is not persistent and data will be lost on restart.
type InMemorySchemaRepository struct {
	mu      sync.RWMutex
	schemas map[string]domain.ConvertedSchema // Map source to its latest conversion
	logger  *slog.Logger
}

// NewInMemorySchemaRepository creates a new in-memory repository.
func NewInMemorySchemaRepository(logger *slog.Logger) *InMemorySchemaRepository {
	return &InMemorySchemaRepository{
		schemas: make(map[string]domain.ConvertedSchema),
		logger:  logger.With("component", "mem_repo"),
	}
}

// Save stores a conversion, replacing any previous conversion of the same source.
func (r *InMemorySchemaRepository) Save(ctx context.Context, schema domain.ConvertedSchema) error {
	if schema.Source == "" {
		r.logger.Error("Refusing to save schema without source")
		return errors.New("save failed: empty source")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.schemas[schema.Source]
	r.schemas[schema.Source] = schema
	r.logger.Info("Saved converted schema",
		slog.String("source", schema.Source),
		slog.Bool("replaced", replaced),
		slog.Int("total_schemas", len(r.schemas)))
	return nil
}

// List returns all stored conversions ordered by source.
func (r *InMemorySchemaRepository) List(ctx context.Context) ([]domain.ConvertedSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.ConvertedSchema, 0, len(r.schemas))
	for _, schema := range r.schemas {
		list = append(list, schema)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Source < list[j].Source })
	r.logger.Debug("Listed schemas from repository", slog.Int("count", len(list)))
	return list, nil
}

// FindBySource retrieves the conversion of source.
func (r *InMemorySchemaRepository) FindBySource(ctx context.Context, source string) (*domain.ConvertedSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[source]
	if !ok {
		r.logger.Warn("Converted schema not found", slog.String("source", source))
		return nil, usecase.ErrSchemaNotFound
	}
	r.logger.Debug("Found converted schema", slog.String("source", source))
	return &schema, nil
}
