package graphql_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/raml2graphql/internal/adapter/outbound/graphql"
	"github.com/i2y/raml2graphql/internal/domain"
	"github.com/i2y/raml2graphql/internal/testfixture"
	"github.com/i2y/raml2graphql/internal/usecase"
)

func TestGather_Books(t *testing.T) {
	got, err := graphql.Gather(testfixture.Books())
	require.NoError(t, err)

	assert.Equal(t, []domain.Comment{
		{Tag: "title", Values: []string{"Library"}},
		{Tag: "version", Values: []string{"v1"}},
		{Tag: "protocols", Values: []string{"HTTP", "HTTPS"}},
		{Tag: "baseUri", Values: []string{"https://library.example.com/{version}"}},
	}, got.Comments)

	assert.Equal(t, []domain.FieldDescriptor{
		{
			QueryName: "books",
			Args: []domain.Argument{
				{Name: "limit", Type: "Int", Required: true},
				{Name: "q", Type: "String", Required: false},
			},
			DisplayName: "Books",
			Level:       0,
		},
		{
			// Same name as the parent collection: a path variable resource
			// is named after the parent path.
			QueryName: "books",
			Args:      []domain.Argument{{Name: "id", Type: "String", Required: true}},
			Level:     1,
		},
		{
			QueryName: "books-{id}/authors",
			Args:      []domain.Argument{{Name: "authorId", Type: "String", Required: true}},
			Level:     3,
		},
		{
			QueryName:   "shelves-archive",
			Args:        []domain.Argument{},
			DisplayName: "Archive",
			Level:       1,
		},
	}, got.Resources)
}

func TestGather_WidgetsQueryParameter(t *testing.T) {
	api := testfixture.API().Resources(
		testfixture.Resource("/widgets").Methods(testfixture.Method("get").Params(
			testfixture.QueryParam("limit").With("type", "integer").With("required", "true"),
			testfixture.QueryParam("ratio").With("type", "number"),
			testfixture.QueryParam("flag").With("required", "not-a-bool"),
		)),
	)

	got, err := graphql.Gather(api)
	require.NoError(t, err)
	require.Len(t, got.Resources, 1)
	assert.Equal(t, "widgets", got.Resources[0].QueryName)
	assert.Equal(t, []domain.Argument{
		{Name: "limit", Type: "Int", Required: true},
		{Name: "ratio", Type: graphql.UnknownType, Required: false},
		{Name: "flag", Type: "String", Required: false},
	}, got.Resources[0].Args)
}

func TestGather_FlatteningKeepsDescendantsOfSkippedNodes(t *testing.T) {
	api := testfixture.API().Resources(
		testfixture.Resource("/a").Resources( // no methods
			testfixture.Resource("/b").Methods(testfixture.Method("post")).Resources( // no GET
				testfixture.Resource("/c").Methods(testfixture.Method("get")),
			),
		),
		testfixture.Resource("/d").Methods(testfixture.Method("get")),
	)

	got, err := graphql.Gather(api)
	require.NoError(t, err)

	names := make([]string, 0, len(got.Resources))
	levels := make([]int, 0, len(got.Resources))
	for _, r := range got.Resources {
		names = append(names, r.QueryName)
		levels = append(levels, r.Level)
	}
	assert.Equal(t, []string{"a-b/c", "d"}, names)
	assert.Equal(t, []int{2, 0}, levels)
}

func TestGather_RootPathVariableIsExposed(t *testing.T) {
	api := testfixture.API().Resources(
		testfixture.Resource("/{id}").Methods(testfixture.Method("get")).Resources(
			testfixture.Resource("/tags").Methods(testfixture.Method("get")),
		),
	)

	text, err := graphql.Render(api)
	require.NoError(t, err)
	assert.Contains(t, text, "type Query {\n(id)\n  {id}-tags\n}\n")

	got, err := graphql.Gather(api)
	require.NoError(t, err)
	assert.Equal(t, []domain.FieldDescriptor{
		{
			QueryName: "",
			Args:      []domain.Argument{{Name: "id", Type: "String", Required: true}},
			Level:     0,
		},
		{
			QueryName: "{id}-tags",
			Args:      []domain.Argument{},
			Level:     1,
		},
	}, got.Resources)
}

func TestGather_NoResources(t *testing.T) {
	got, err := graphql.Gather(testfixture.API())
	require.NoError(t, err)
	assert.NotNil(t, got.Resources)
	assert.Empty(t, got.Resources)
	require.Len(t, got.Comments, 4)
	for _, c := range got.Comments {
		assert.Empty(t, c.Values)
	}
}

func TestGather_MissingRelativeURIFails(t *testing.T) {
	api := testfixture.API().Resources(testfixture.ResourceWithoutURI())
	_, err := graphql.Gather(api)
	assert.ErrorIs(t, err, usecase.ErrMissingAttribute)
}

func TestGather_PathVariableArgumentAlwaysFirst(t *testing.T) {
	api := testfixture.API().Resources(
		testfixture.Resource("/users").Resources(
			testfixture.Resource("/{userId}").Methods(testfixture.Method("get").Params(
				testfixture.QueryParam("fields"),
			)),
		),
	)

	got, err := graphql.Gather(api)
	require.NoError(t, err)
	require.Len(t, got.Resources, 1)
	assert.Equal(t, "users", got.Resources[0].QueryName)
	assert.Equal(t, []domain.Argument{
		{Name: "userId", Type: "String", Required: true},
		{Name: "fields", Type: "String", Required: false},
	}, got.Resources[0].Args)
}

// renderedField is one field line of the text form.
type renderedField struct {
	level int
	name  string
	args  []string
}

// parseFields reads the field lines between "type Query {" and the closing brace.
func parseFields(t *testing.T, text string) []renderedField {
	t.Helper()
	_, body, ok := strings.Cut(text, "type Query {\n")
	require.True(t, ok, "missing Query type")
	body, ok = strings.CutSuffix(body, "}\n")
	require.True(t, ok, "missing closing brace")

	var fields []renderedField
	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		if line == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")
		field := renderedField{level: (len(line) - len(trimmed)) / 2}
		trimmed, _, _ = strings.Cut(trimmed, " # ")
		if open := strings.Index(trimmed, "("); open >= 0 && strings.HasSuffix(trimmed, ")") {
			field.args = strings.Split(trimmed[open+1:len(trimmed)-1], ", ")
			trimmed = trimmed[:open]
		}
		field.name = trimmed
		fields = append(fields, field)
	}
	return fields
}

// The text form and the structured form list the same fields in the same
// order, at the same depth and with the same implicit arguments.
func TestRenderAndGatherAgree(t *testing.T) {
	tests := map[string]domain.Element{
		"books": testfixture.Books(),
		"root path variable": testfixture.API().Resources(
			testfixture.Resource("/{id}").Methods(testfixture.Method("get").Params(testfixture.QueryParam("q"))),
			testfixture.Resource("/items").Methods(testfixture.Method("get")).Resources(
				testfixture.Resource("/{itemId}").Methods(testfixture.Method("get")),
			),
		),
	}
	for name, api := range tests {
		t.Run(name, func(t *testing.T) {
			text, err := graphql.Render(api)
			require.NoError(t, err)
			structure, err := graphql.Gather(api)
			require.NoError(t, err)

			rendered := parseFields(t, text)
			require.Len(t, structure.Resources, len(rendered))
			for i, field := range structure.Resources {
				line := rendered[i]
				assert.Equal(t, line.name, field.QueryName, "field %d", i)
				assert.Equal(t, line.level, field.Level, "field %d", i)
				require.GreaterOrEqual(t, len(field.Args), len(line.args), "field %d", i)
				for j, argName := range line.args {
					assert.Equal(t, argName, field.Args[j].Name, "field %d", i)
					assert.Equal(t, domain.Argument{Name: argName, Type: "String", Required: true}, field.Args[j])
				}
			}
		})
	}
}

func TestRenderAndGather_ConcurrentOnSharedTree(t *testing.T) {
	api := testfixture.Books()
	wantText, err := graphql.Render(api)
	require.NoError(t, err)
	wantStructure, err := graphql.Gather(api)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			text, err := graphql.Render(api)
			assert.NoError(t, err)
			assert.Equal(t, wantText, text)
		}()
		go func() {
			defer wg.Done()
			structure, err := graphql.Gather(api)
			assert.NoError(t, err)
			assert.Equal(t, wantStructure, structure)
		}()
	}
	wg.Wait()
}
