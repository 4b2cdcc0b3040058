package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/i2y/raml2graphql/internal/domain"
)

// MockSchemaFetcher is a mock implementation of the SchemaFetcher interface.
type MockSchemaFetcher struct {
	mock.Mock
}

func (m *MockSchemaFetcher) Fetch(ctx context.Context, source domain.SchemaSource) (domain.APIDocument, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(domain.APIDocument), args.Error(1)
}

// MockSchemaGenerator is a mock implementation of the SchemaGenerator interface.
type MockSchemaGenerator struct {
	mock.Mock
}

func (m *MockSchemaGenerator) Render(api domain.Element) (string, error) {
	args := m.Called(api)
	return args.String(0), args.Error(1)
}

func (m *MockSchemaGenerator) Gather(api domain.Element) (domain.APIStructure, error) {
	args := m.Called(api)
	return args.Get(0).(domain.APIStructure), args.Error(1)
}

// MockSchemaRepository is a mock implementation of the SchemaRepository interface.
type MockSchemaRepository struct {
	mock.Mock
}

func (m *MockSchemaRepository) Save(ctx context.Context, schema domain.ConvertedSchema) error {
	args := m.Called(ctx, schema)
	return args.Error(0)
}

func (m *MockSchemaRepository) List(ctx context.Context) ([]domain.ConvertedSchema, error) {
	args := m.Called(ctx)
	// Handle potential nil slice
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.([]domain.ConvertedSchema), args.Error(1)
}

func (m *MockSchemaRepository) FindBySource(ctx context.Context, source string) (*domain.ConvertedSchema, error) {
	args := m.Called(ctx, source)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*domain.ConvertedSchema), args.Error(1)
}
