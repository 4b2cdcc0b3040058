// Package testfixture builds API description trees by hand for tests,
// without going through a parser.
package testfixture

import "github.com/i2y/raml2graphql/internal/domain"

// API creates an api root element.
func API() *APINode {
	return &APINode{domain.NewNode("")}
}

// APINode adds api-shaped builders to domain.Node.
type APINode struct{ *domain.Node }

// With appends an attribute value. Repeating a name adds another value.
func (a *APINode) With(name, value string) *APINode {
	a.Node.With(name, value)
	return a
}

// Resources appends top-level resources.
func (a *APINode) Resources(resources ...*ResourceNode) *APINode {
	for _, r := range resources {
		a.Append(domain.KindResources, r.Node)
	}
	return a
}

// Resource creates a resource element with the given relativeUri.
func Resource(relativeURI string) *ResourceNode {
	return &ResourceNode{domain.NewNode(relativeURI).With("relativeUri", relativeURI)}
}

// ResourceWithoutURI creates a malformed resource lacking relativeUri.
func ResourceWithoutURI() *ResourceNode {
	return &ResourceNode{domain.NewNode("")}
}

// Method creates a method element, e.g. Method("get").
func Method(name string) *MethodNode {
	return &MethodNode{domain.NewNode(name)}
}

// QueryParam creates a query parameter element.
func QueryParam(name string) *domain.Node {
	return domain.NewNode(name)
}

// ResourceNode adds resource-shaped builders to domain.Node.
type ResourceNode struct{ *domain.Node }

// With appends an attribute value.
func (r *ResourceNode) With(name, value string) *ResourceNode {
	r.Node.With(name, value)
	return r
}

// Methods appends method children.
func (r *ResourceNode) Methods(methods ...*MethodNode) *ResourceNode {
	for _, m := range methods {
		r.Append(domain.KindMethods, m.Node)
	}
	return r
}

// Resources appends sub-resources.
func (r *ResourceNode) Resources(resources ...*ResourceNode) *ResourceNode {
	for _, sub := range resources {
		r.Append(domain.KindResources, sub.Node)
	}
	return r
}

// MethodNode adds method-shaped builders to domain.Node.
type MethodNode struct{ *domain.Node }

// Params appends query parameter children.
func (m *MethodNode) Params(params ...*domain.Node) *MethodNode {
	m.Append(domain.KindQueryParameters, params...)
	return m
}

// Books returns a small library api used across tests:
//
//	/books (GET, displayName Books, ?limit:integer required, ?q)
//	  /{id} (GET)
//	    /authors (POST only)
//	      /{authorId} (GET)
//	/shelves (no methods)
//	  /archive (GET, displayName Archive)
func Books() *APINode {
	return API().
		With("title", "Library").
		With("version", "v1").
		With("protocols", "HTTP").
		With("protocols", "HTTPS").
		With("baseUri", "https://library.example.com/{version}").
		Resources(
			Resource("/books").With("displayName", "Books").
				Methods(Method("get").Params(
					QueryParam("limit").With("type", "integer").With("required", "true"),
					QueryParam("q"),
				)).
				Resources(
					Resource("/{id}").Methods(Method("get")).Resources(
						Resource("/authors").Methods(Method("post")).Resources(
							Resource("/{authorId}").Methods(Method("get")),
						),
					),
				),
			Resource("/shelves").Resources(
				Resource("/archive").With("displayName", "Archive").Methods(Method("get")),
			),
		)
}
