package usecase

import (
	"context"
	"errors"

	"github.com/i2y/raml2graphql/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrMissingAttribute marks an API description lacking a required attribute
	// (e.g. a resource without relativeUri).
	ErrMissingAttribute      = errors.New("missing required attribute")
	ErrUnsupportedSchemaType = errors.New("unsupported schema type")
)

// --- Schema Source Related ---

// SchemaFetcher defines the interface for loading an API description and
// parsing it into an element tree.
type SchemaFetcher interface {
	Fetch(ctx context.Context, source domain.SchemaSource) (domain.APIDocument, error)
}

// SchemaGenerator turns an element tree into a GraphQL Query schema, both as
// rendered text and as structured field descriptors.
type SchemaGenerator interface {
	Render(api domain.Element) (string, error)
	Gather(api domain.Element) (domain.APIStructure, error)
}

// SchemaRepository defines the contract for storing and retrieving converted schemas.
type SchemaRepository interface {
	// Save stores a conversion, replacing any previous one for the same source.
	Save(ctx context.Context, schema domain.ConvertedSchema) error

	// List retrieves all stored conversions ordered by source.
	List(ctx context.Context) ([]domain.ConvertedSchema, error)

	// FindBySource retrieves the conversion of a specific source.
	FindBySource(ctx context.Context, source string) (*domain.ConvertedSchema, error)
}
