package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/raml2graphql/internal/adapter/outbound/graphql"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/openapi"
	"github.com/i2y/raml2graphql/internal/domain"
)

const petsOpenAPI = `openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
servers:
  - url: https://pets.example.com/v1
  - url: http://localhost:8080
  - url: https://staging.pets.example.com/v1
paths:
  /pets:
    summary: Pets
    get:
      parameters:
        - name: limit
          in: query
          required: true
          schema:
            type: integer
        - name: X-Trace
          in: header
          schema:
            type: string
      responses:
        '200':
          description: ok
    post:
      responses:
        '201':
          description: created
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: string
      - name: fields
        in: query
        schema:
          type: string
    get:
      responses:
        '200':
          description: ok
  /stores/{storeId}/pets:
    get:
      parameters:
        - name: storeId
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: ok
`

const petsSchema = `# title: Pets
# version: 1.0.0
# protocols: HTTPS, HTTP
# baseUri: https://pets.example.com/v1

type Query {
pets # Pets
  pets(petId)
    stores-{storeId}/pets
}
`

func loadPets(t *testing.T) domain.Element {
	t.Helper()
	doc, err := openapi.Load(context.Background(), []byte(petsOpenAPI))
	require.NoError(t, err)
	return openapi.ResourceTree(doc)
}

func TestResourceTree_Render(t *testing.T) {
	got, err := graphql.Render(loadPets(t))
	require.NoError(t, err)
	assert.Equal(t, petsSchema, got)
}

func TestResourceTree_Gather(t *testing.T) {
	got, err := graphql.Gather(loadPets(t))
	require.NoError(t, err)

	assert.Equal(t, []domain.FieldDescriptor{
		{
			QueryName:   "pets",
			Args:        []domain.Argument{{Name: "limit", Type: "Int", Required: true}},
			DisplayName: "Pets",
			Level:       0,
		},
		{
			QueryName: "pets",
			Args: []domain.Argument{
				{Name: "petId", Type: "String", Required: true},
				{Name: "fields", Type: "String", Required: false},
			},
			Level: 1,
		},
		{
			QueryName: "stores-{storeId}/pets",
			Args:      []domain.Argument{},
			Level:     2,
		},
	}, got.Resources)
}

func TestResourceTree_Structure(t *testing.T) {
	api := loadPets(t)

	resources := api.ElementsOfKind(domain.KindResources)
	require.Len(t, resources, 2)

	pets := resources[0]
	methods := pets.ElementsOfKind(domain.KindMethods)
	require.Len(t, methods, 2)
	assert.Equal(t, "get", methods[0].Name())
	assert.Equal(t, "post", methods[1].Name())

	stores := resources[1]
	rel, ok := stores.Attr("relativeUri")
	require.True(t, ok)
	assert.Equal(t, "/stores", rel.PlainValue())
	assert.Empty(t, stores.ElementsOfKind(domain.KindMethods), "intermediate segments have no methods")
}

func TestResourceTree_EmptyDocument(t *testing.T) {
	doc, err := openapi.Load(context.Background(), []byte(`{"openapi":"3.0.3","info":{"title":"Empty","version":"0"},"paths":{}}`))
	require.NoError(t, err)

	got, err := graphql.Render(openapi.ResourceTree(doc))
	require.NoError(t, err)
	assert.Equal(t, "# title: Empty\n# version: 0\n# protocols: \n# baseUri: \n\ntype Query {\n}\n", got)
}

func TestResourceTree_TrailingSlashDuplicates(t *testing.T) {
	doc, err := openapi.Load(context.Background(), []byte(`openapi: 3.0.3
info:
  title: Books
  version: "1"
paths:
  /books:
    summary: Books
    get:
      responses:
        '200':
          description: ok
  /books/:
    summary: Books again
    get:
      responses:
        '200':
          description: ok
`))
	require.NoError(t, err)
	api := openapi.ResourceTree(doc)

	resources := api.ElementsOfKind(domain.KindResources)
	require.Len(t, resources, 1)
	assert.Len(t, resources[0].ElementsOfKind(domain.KindMethods), 1)
	assert.Len(t, resources[0].Attributes("displayName"), 1)

	got, err := graphql.Render(api)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "books # Books\n"))
	assert.NotContains(t, got, "Books again")
}
