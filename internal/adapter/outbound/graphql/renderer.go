package graphql

import (
	"fmt"
	"strings"

	"github.com/i2y/raml2graphql/internal/domain"
)

// Render emits the GraphQL schema text for an api element: one comment line
// per api-level tag, then a Query type with one line per GET-able resource.
// Only implicit path-variable arguments appear in the text form.
func Render(api domain.Element) (string, error) {
	var b strings.Builder
	for _, tag := range commentTags {
		fmt.Fprintf(&b, "# %s: %s\n", tag, strings.Join(plainValues(api.Attributes(tag)), ", "))
	}

	b.WriteString("\ntype Query {\n")
	for _, resource := range api.ElementsOfKind(domain.KindResources) {
		if err := renderResource(&b, resource, 0, ""); err != nil {
			return "", err
		}
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func renderResource(b *strings.Builder, resource domain.Element, level int, parentURI string) error {
	res, err := ResolvePath(resource, parentURI)
	if err != nil {
		return err
	}

	for range getMethods(resource) {
		b.WriteString(strings.Repeat("  ", level))
		b.WriteString(res.QueryName)
		if len(res.ImplicitArgs) > 0 {
			names := make([]string, 0, len(res.ImplicitArgs))
			for _, arg := range res.ImplicitArgs {
				names = append(names, arg.Name)
			}
			fmt.Fprintf(b, "(%s)", strings.Join(names, ", "))
		}
		if dn, ok := resource.Attr("displayName"); ok {
			fmt.Fprintf(b, " # %s", dn.PlainValue())
		}
		b.WriteString("\n")
	}

	for _, sub := range resource.ElementsOfKind(domain.KindResources) {
		if err := renderResource(b, sub, level+1, res.URI); err != nil {
			return err
		}
	}
	return nil
}
