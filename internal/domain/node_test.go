package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/raml2graphql/internal/domain"
)

func TestNode_ElementsOfKindIsACopy(t *testing.T) {
	root := domain.NewNode("").Append(domain.KindResources,
		domain.NewNode("/a").With("relativeUri", "/a"),
		domain.NewNode("/b").With("relativeUri", "/b"),
	)

	got := root.ElementsOfKind(domain.KindResources)
	require.Len(t, got, 2)
	got[0] = domain.NewNode("/replaced")
	_ = append(got[:1], domain.NewNode("/appended"))

	again := root.ElementsOfKind(domain.KindResources)
	require.Len(t, again, 2)
	assert.Equal(t, "/a", again[0].Name())
	assert.Equal(t, "/b", again[1].Name())
	assert.Empty(t, root.ElementsOfKind(domain.KindMethods))
}

func TestNode_Attributes(t *testing.T) {
	n := domain.NewNode("api").With("protocols", "HTTP").With("protocols", "HTTPS")

	first, ok := n.Attr("protocols")
	require.True(t, ok)
	assert.Equal(t, "HTTP", first.PlainValue())
	assert.Len(t, n.Attributes("protocols"), 2)

	_, ok = n.Attr("title")
	assert.False(t, ok)
	assert.Empty(t, n.Attributes("title"))
}
