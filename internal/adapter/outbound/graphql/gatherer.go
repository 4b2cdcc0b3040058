package graphql

import (
	"github.com/i2y/raml2graphql/internal/domain"
)

// resourceNode is the nested form built before flattening.
type resourceNode struct {
	field        domain.FieldDescriptor
	exposed      bool // true when the resource has a GET
	subResources []resourceNode
}

// Gather walks the same tree as Render but returns the api comments and the
// field descriptors in pre-order. Descriptor arguments include the declared
// query parameters as well as the implicit path-variable argument.
func Gather(api domain.Element) (domain.APIStructure, error) {
	comments := make([]domain.Comment, 0, len(commentTags))
	for _, tag := range commentTags {
		comments = append(comments, domain.Comment{Tag: tag, Values: plainValues(api.Attributes(tag))})
	}

	var roots []resourceNode
	for _, resource := range api.ElementsOfKind(domain.KindResources) {
		node, err := gatherResource(resource, 0, "")
		if err != nil {
			return domain.APIStructure{}, err
		}
		roots = append(roots, node)
	}

	return domain.APIStructure{
		Comments:  comments,
		Resources: flattenResources(roots, []domain.FieldDescriptor{}),
	}, nil
}

func gatherResource(resource domain.Element, level int, parentURI string) (resourceNode, error) {
	node := resourceNode{field: domain.FieldDescriptor{Level: level}}
	res, err := ResolvePath(resource, parentURI)
	if err != nil {
		return node, err
	}

	// With several GET methods the last one wins.
	for _, method := range getMethods(resource) {
		args := make([]domain.Argument, 0, len(res.ImplicitArgs))
		args = append(args, res.ImplicitArgs...)
		args = append(args, declaredArgs(method)...)

		node.field.QueryName = res.QueryName
		node.field.Args = args
		if dn, ok := resource.Attr("displayName"); ok {
			node.field.DisplayName = dn.PlainValue()
		}
		node.exposed = true
	}

	for _, sub := range resource.ElementsOfKind(domain.KindResources) {
		child, err := gatherResource(sub, level+1, res.URI)
		if err != nil {
			return node, err
		}
		node.subResources = append(node.subResources, child)
	}
	return node, nil
}

// flattenResources appends exposed nodes to out in pre-order. Nodes that are
// not exposed are skipped but their descendants are still visited.
func flattenResources(nodes []resourceNode, out []domain.FieldDescriptor) []domain.FieldDescriptor {
	for _, node := range nodes {
		if node.exposed {
			out = append(out, node.field)
		}
		out = flattenResources(node.subResources, out)
	}
	return out
}
