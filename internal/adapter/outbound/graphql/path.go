package graphql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/i2y/raml2graphql/internal/domain"
	"github.com/i2y/raml2graphql/internal/usecase"
)

// pathVariable matches a relative URI made of a single path variable, e.g. "/{id}".
var pathVariable = regexp.MustCompile(`^/\{([^/{}]+)\}$`)

// Resolution is the outcome of resolving one resource against its parent path.
type Resolution struct {
	// URI is the resource's full path; children resolve against it.
	URI string
	// BasePath is the path the query name is derived from. For a path
	// variable resource it is the parent's path.
	BasePath  string
	QueryName string
	// ImplicitArgs holds the argument captured from a path variable segment.
	ImplicitArgs []domain.Argument
}

// ResolvePath computes the full path, query name and implicit arguments of
// resource, given the already resolved path of its parent.
func ResolvePath(resource domain.Element, parentURI string) (Resolution, error) {
	relAttr, ok := resource.Attr("relativeUri")
	if !ok {
		return Resolution{}, fmt.Errorf("resource under %q: relativeUri: %w", parentURI, usecase.ErrMissingAttribute)
	}
	rel := relAttr.PlainValue()

	res := Resolution{
		URI:      parentURI + rel,
		BasePath: parentURI + rel,
	}
	if m := pathVariable.FindStringSubmatch(rel); m != nil {
		res.BasePath = parentURI
		res.ImplicitArgs = []domain.Argument{{Name: m[1], Type: "String", Required: true}}
	}
	res.QueryName = queryName(res.BasePath)
	return res, nil
}

// queryName drops the leading separator and turns only the first remaining
// separator into a hyphen: "/a/b/c" becomes "a-b/c".
func queryName(basePath string) string {
	return strings.Replace(strings.TrimPrefix(basePath, "/"), "/", "-", 1)
}

// getMethods returns the methods of resource named exactly "get".
func getMethods(resource domain.Element) []domain.Element {
	var gets []domain.Element
	for _, m := range resource.ElementsOfKind(domain.KindMethods) {
		if m.Name() == "get" {
			gets = append(gets, m)
		}
	}
	return gets
}

// declaredArgs converts the query parameters of method into arguments.
// Parameters default to type "string" and not required.
func declaredArgs(method domain.Element) []domain.Argument {
	params := method.ElementsOfKind(domain.KindQueryParameters)
	args := make([]domain.Argument, 0, len(params))
	for _, qp := range params {
		typ := "string"
		if a, ok := qp.Attr("type"); ok {
			typ = a.PlainValue()
		}
		required := false
		if a, ok := qp.Attr("required"); ok {
			required, _ = strconv.ParseBool(a.PlainValue())
		}
		args = append(args, domain.Argument{Name: qp.Name(), Type: MapScalarType(typ), Required: required})
	}
	return args
}

// commentTags are the api-level attributes reported ahead of the Query type.
var commentTags = []string{"title", "version", "protocols", "baseUri"}

func plainValues(attrs []domain.Attribute) []string {
	values := make([]string, 0, len(attrs))
	for _, a := range attrs {
		values = append(values, a.PlainValue())
	}
	return values
}
