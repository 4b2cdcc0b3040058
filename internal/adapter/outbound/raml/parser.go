package raml

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/i2y/raml2graphql/internal/domain"
)

// httpMethods are the RAML keys that declare a method on a resource.
var httpMethods = map[string]bool{
	"get": true, "post": true, "put": true, "patch": true,
	"delete": true, "options": true, "head": true,
}

// addScalarAttrs records a scalar value as one attribute and a sequence of
// scalars as one attribute per item. Other shapes are ignored.
func addScalarAttrs(n *domain.Node, name string, value *yaml.Node) {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!null" {
			n.With(name, value.Value)
		}
	case yaml.SequenceNode:
		for _, item := range value.Content {
			item = resolve(item)
			if item.Kind == yaml.ScalarNode {
				n.With(name, item.Value)
			}
		}
	}
}

// Parse decodes a RAML document into its api element.
func Parse(data []byte) (domain.Element, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode RAML document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty RAML document")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("RAML document root must be a mapping, got %s", kindName(root.Kind))
	}

	api := domain.NewNode("")
	for key, value := range pairs(root) {
		if strings.HasPrefix(key, "/") {
			api.Append(domain.KindResources, buildResource(key, value))
			continue
		}
		addScalarAttrs(api, key, value)
	}
	return api, nil
}

func buildResource(relativeURI string, node *yaml.Node) *domain.Node {
	res := domain.NewNode(relativeURI).With("relativeUri", relativeURI)
	if node.Kind != yaml.MappingNode {
		return res
	}
	for key, value := range pairs(node) {
		switch {
		case strings.HasPrefix(key, "/"):
			res.Append(domain.KindResources, buildResource(key, value))
		case httpMethods[key]:
			res.Append(domain.KindMethods, buildMethod(key, value))
		default:
			addScalarAttrs(res, key, value)
		}
	}
	return res
}

func buildMethod(name string, node *yaml.Node) *domain.Node {
	m := domain.NewNode(name)
	if node.Kind != yaml.MappingNode {
		return m
	}
	for key, value := range pairs(node) {
		if key == "queryParameters" && value.Kind == yaml.MappingNode {
			for pname, pnode := range pairs(value) {
				m.Append(domain.KindQueryParameters, buildQueryParameter(pname, pnode))
			}
			continue
		}
		addScalarAttrs(m, key, value)
	}
	return m
}

// buildQueryParameter accepts both the mapping form and the "name: type"
// shorthand. A trailing "?" on the name marks the parameter optional.
func buildQueryParameter(name string, node *yaml.Node) *domain.Node {
	optional := strings.HasSuffix(name, "?")
	qp := domain.NewNode(strings.TrimSuffix(name, "?"))
	switch node.Kind {
	case yaml.ScalarNode:
		addScalarAttrs(qp, "type", node)
	case yaml.MappingNode:
		for key, value := range pairs(node) {
			addScalarAttrs(qp, key, value)
		}
	}
	if optional {
		if _, ok := qp.Attr("required"); !ok {
			qp.With("required", "false")
		}
	}
	return qp
}

// pairs iterates the key/value pairs of a mapping node in source order.
func pairs(mapping *yaml.Node) func(yield func(string, *yaml.Node) bool) {
	return func(yield func(string, *yaml.Node) bool) {
		for i := 0; i+1 < len(mapping.Content); i += 2 {
			if !yield(mapping.Content[i].Value, resolve(mapping.Content[i+1])) {
				return
			}
		}
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "unknown"
	}
}
