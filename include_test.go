package jsonapi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/jsonapi"
)

func TestParseIncludePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"author"}, jsonapi.ParseIncludePath("author"))
	assert.Equal(t, []string{"comments", "user"}, jsonapi.ParseIncludePath("comments.user"))
	assert.Equal(t, []string{"a", "b"}, jsonapi.ParseIncludePath(" a . .b. "))
	assert.Empty(t, jsonapi.ParseIncludePath(""))
}

func newResolver(t *testing.T) *jsonapi.InclusionResolver {
	t.Helper()
	reg, err := jsonapi.NewSchemaRegistry(newBlogCatalog(), nil,
		jsonapi.Entity{Name: "Article"},
		jsonapi.Entity{Name: "Author"},
		jsonapi.Entity{Name: "Comment"},
	)
	require.NoError(t, err)
	return jsonapi.NewInclusionResolver(reg)
}

func identities(included []jsonapi.IncludedResource) []string {
	out := make([]string, len(included))
	for i, inc := range included {
		out[i] = inc.Identity.String()
	}
	return out
}

func TestInclusionResolver(t *testing.T) {
	t.Parallel()

	b := newBlog()
	r := newResolver(t)

	t.Run("NoPaths", func(t *testing.T) {
		included, err := r.Resolve([]any{b.articles[0]}, nil)
		require.NoError(t, err)
		assert.Nil(t, included)
	})

	t.Run("Nested", func(t *testing.T) {
		included, err := r.Resolve([]any{b.articles[0]}, []string{"comments.user"})
		require.NoError(t, err)
		assert.Equal(t, []string{"comments:1", "authors:2", "comments:2", "authors:1"}, identities(included))
		assert.Same(t, b.nate, included[1].Record)
		assert.Equal(t, []string{"user"}, included[0].Include)
		assert.Nil(t, included[1].Include)
		assert.Equal(t, "authors", included[1].Schema.ResourceType())
	})

	t.Run("Deduplicates", func(t *testing.T) {
		included, err := r.Resolve([]any{b.articles[0], b.articles[2]}, []string{"author", "author"})
		require.NoError(t, err)
		assert.Equal(t, []string{"authors:1"}, identities(included))
	})

	t.Run("IncludeListsChildNames", func(t *testing.T) {
		included, err := r.Resolve([]any{b.articles[0]}, []string{"comments.user", "comments.article"})
		require.NoError(t, err)
		require.Equal(t, "comments:1", included[0].Identity.String())
		assert.Equal(t, []string{"user", "article"}, included[0].Include)
	})

	t.Run("UnknownRelationshipIgnored", func(t *testing.T) {
		included, err := r.Resolve([]any{b.articles[1]}, []string{"tags", "author.tags"})
		require.NoError(t, err)
		assert.Equal(t, []string{"authors:3"}, identities(included))
	})

	t.Run("NullRelationship", func(t *testing.T) {
		orphan := &Article{ID: 9}
		included, err := r.Resolve([]any{orphan}, []string{"author", "comments"})
		require.NoError(t, err)
		assert.Empty(t, included)
	})

	t.Run("UndeclaredRecord", func(t *testing.T) {
		reg, err := jsonapi.NewSchemaRegistry(newBlogCatalog(), nil, jsonapi.Entity{Name: "Article"})
		require.NoError(t, err)
		_, err = jsonapi.NewInclusionResolver(reg).Resolve([]any{b.articles[0]}, []string{"author"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, jsonapi.ErrSchemaNotFound))
	})
}
