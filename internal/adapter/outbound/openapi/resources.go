package openapi

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/raml2graphql/internal/domain"
)

// verbs lists the operations of a path item in the order they become methods.
var verbs = []string{
	"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE",
}

// ResourceTree projects an OpenAPI document onto the resource tree used by
// RAML: every path is split into segments, each segment becomes a resource
// nested under the previous one, and operations become methods.
//
// Api attributes: title and version come from info, baseUri from the first
// server and protocols from the distinct schemes of all servers. Paths that
// differ only by a trailing slash map to one resource; the first in sorted
// order supplies its operations.
func ResourceTree(doc *openapi3.T) domain.Element {
	api := domain.NewNode("")
	if doc.Info != nil {
		if doc.Info.Title != "" {
			api.With("title", doc.Info.Title)
		}
		if doc.Info.Version != "" {
			api.With("version", doc.Info.Version)
		}
	}
	addServers(api, doc.Servers)

	if doc.Paths == nil {
		return api
	}
	items := doc.Paths.Map()
	paths := make([]string, 0, len(items))
	for p := range items {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	index := make(map[string]*domain.Node)
	done := make(map[string]bool)
	for _, p := range paths {
		item := items[p]
		if item == nil {
			continue
		}
		key := "/" + strings.Trim(p, "/")
		if done[key] {
			continue
		}
		done[key] = true
		res := ensureResource(api, index, p)
		if item.Summary != "" {
			res.With("displayName", item.Summary)
		}
		for _, verb := range verbs {
			op := item.GetOperation(verb)
			if op == nil {
				continue
			}
			res.Append(domain.KindMethods, buildMethod(verb, op, item.Parameters))
		}
	}
	return api
}

func addServers(api *domain.Node, servers openapi3.Servers) {
	seen := make(map[string]bool)
	first := true
	for _, server := range servers {
		if server == nil || server.URL == "" {
			continue
		}
		if first {
			api.With("baseUri", server.URL)
			first = false
		}
		u, err := url.Parse(server.URL)
		if err != nil || u.Scheme == "" {
			continue
		}
		scheme := strings.ToUpper(u.Scheme)
		if !seen[scheme] {
			seen[scheme] = true
			api.With("protocols", scheme)
		}
	}
}

// ensureResource returns the resource for path p, creating it and any
// missing ancestors.
func ensureResource(api *domain.Node, index map[string]*domain.Node, p string) *domain.Node {
	parent := api
	prefix := ""
	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		rel := "/" + seg
		prefix += rel
		res, ok := index[prefix]
		if !ok {
			res = domain.NewNode(rel).With("relativeUri", rel)
			parent.Append(domain.KindResources, res)
			index[prefix] = res
		}
		parent = res
	}
	return parent
}

// buildMethod converts an operation into a method element. Operation
// parameters override path-level ones with the same name.
func buildMethod(verb string, op *openapi3.Operation, shared openapi3.Parameters) *domain.Node {
	m := domain.NewNode(strings.ToLower(verb))
	declared := make(map[string]bool)
	for _, params := range []openapi3.Parameters{op.Parameters, shared} {
		for _, ref := range params {
			if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInQuery {
				continue
			}
			p := ref.Value
			if declared[p.Name] {
				continue
			}
			declared[p.Name] = true

			qp := domain.NewNode(p.Name)
			if t := schemaType(p.Schema); t != "" {
				qp.With("type", t)
			}
			qp.With("required", strconv.FormatBool(p.Required))
			m.Append(domain.KindQueryParameters, qp)
		}
	}
	return m
}

// schemaType returns the first declared type of a parameter schema.
func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil || ref.Value.Type == nil || len(*ref.Value.Type) == 0 {
		return ""
	}
	return (*ref.Value.Type)[0]
}
