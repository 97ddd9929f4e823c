package folio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eringen/folio/content"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "hello"}, "https://example.com/blog/hello/"},
		{"https://example.com/sub/", []string{"blog"}, "https://example.com/sub/blog/"},
		{"https://example.com", []string{"blog", "a b"}, "https://example.com/blog/a%20b/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.base, tt.segs...))
	}
}

func TestEntityPath(t *testing.T) {
	tests := []struct {
		coll content.Collection
		slug string
		want string
	}{
		{content.Posts, "hello", "/blog/hello/"},
		{content.Posts, "2024/hello", "/blog/2024/hello/"},
		{content.Pages, "about", "/about/"},
		{content.Pages, "", "/"},
		{content.Authors, "jane", "/authors/jane/"},
		{content.Categories, "go-tips", "/category/go-tips/"},
		{content.Posts, "a b", "/blog/a%20b/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EntityPath(tt.coll, tt.slug))
	}
}

func TestEntityURL(t *testing.T) {
	assert.Equal(t, "https://example.com/blog/2024/hello/", EntityURL("https://example.com", content.Posts, "2024/hello"))
	assert.Equal(t, "https://example.com/legal/terms/", EntityURL("https://example.com", content.Pages, "legal/terms"))
}

func TestWildcardSegments(t *testing.T) {
	assert.Equal(t, []string{"2024", "hello"}, wildcardSegments("2024/hello/"))
	assert.Equal(t, []string{"a b"}, wildcardSegments("a%20b"))
	assert.Empty(t, wildcardSegments(""))
	assert.Equal(t, []string{"100%"}, wildcardSegments("100%"))
}

func TestFilterEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, FilterEmpty([]string{"", " a ", "  ", "b"}))
	assert.Nil(t, FilterEmpty(nil))
}
