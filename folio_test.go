package folio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/content"
)

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"posts/hello.md": {Data: []byte(`---
title: Hello
description: First post
date: 2024-03-01
authors: [jane, ghost]
categories: [Go Tips]
---
## Intro

Welcome.

### Details

More.
`)},
		"posts/second.md":       {Data: []byte("---\ntitle: Second\ndate: 2024-04-01\nauthors: [jane]\n---\nbody\n")},
		"posts/draft.md":        {Data: []byte("---\ntitle: Draft\ndate: 2024-05-01\npublished: false\n---\nwip\n")},
		"posts/2024/nested.md":  {Data: []byte("---\ntitle: Nested\ndate: 2024-02-01\n---\nolder\n")},
		"pages/about.md":        {Data: []byte("---\ntitle: About\n---\n# About us\n\n## Team\n")},
		"pages/legal/terms.md":  {Data: []byte("---\ntitle: Terms\n---\nterms\n")},
		"pages/hidden.md":       {Data: []byte("---\ntitle: Hidden\npublished: false\n---\nsecret\n")},
		"authors/jane.md":       {Data: []byte("---\nname: Jane Doe\n---\nWrites things.\n")},
		"categories/go-tips.md": {Data: []byte("---\ntitle: Go Tips\n---\n")},
	}
}

// headerViewer reads the viewer id from a request header so tests need no
// session cookie.
func headerViewer(c echo.Context) string {
	return c.Request().Header.Get("X-Viewer")
}

func newTestApp(t *testing.T, configure func(*SiteConfig), opts ...Option) *App {
	t.Helper()
	lib := NewLibrary(testContent(), zerolog.Nop())
	require.NoError(t, lib.Reload())

	cfg := SiteConfig{
		Name:          "Folio Test",
		URL:           "https://example.com",
		SessionSecret: "test-secret",
		DatabasePath:  filepath.Join(t.TempDir(), "data", "comments.db"),
	}
	if configure != nil {
		configure(&cfg)
	}
	base := []Option{WithLibrary(lib), WithLogger(zerolog.Nop()), WithViewer(headerViewer)}
	a := New(cfg, ViewFuncs{}, append(base, opts...)...)
	require.NoError(t, a.Init())
	t.Cleanup(func() { a.Close() })
	return a
}

func get(a *App, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func slugs[T interface{ Head() content.Header }](items []T) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Head().Slug)
	}
	return out
}

func TestInitRequiresSessionSecret(t *testing.T) {
	a := New(SiteConfig{}, ViewFuncs{}, WithLogger(zerolog.Nop()))
	err := a.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SessionSecret")
}

func TestNewAppliesDefaults(t *testing.T) {
	a := New(SiteConfig{}, ViewFuncs{})
	assert.Equal(t, "Folio", a.Config.Name)
	assert.Equal(t, ":3000", a.Config.Addr)
	assert.Equal(t, "content", a.Config.ContentDir)
	assert.Equal(t, 5, a.Config.HomePosts)
	assert.NotNil(t, a.Registry)
}

func TestHomeListsLatestPublished(t *testing.T) {
	a := newTestApp(t, func(c *SiteConfig) { c.HomePosts = 2 })
	rec := get(a, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[ListView](t, rec)
	assert.Equal(t, []string{"second", "hello"}, slugs(v.Posts))
	assert.Equal(t, "Folio Test", v.Meta.Title)
}

func TestBlogListsAllPublished(t *testing.T) {
	a := newTestApp(t, nil)
	rec := get(a, "/blog/")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[ListView](t, rec)
	assert.Equal(t, []string{"second", "hello", "2024/nested"}, slugs(v.Posts))

	rec = get(a, "/blog")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog/", rec.Header().Get("Location"))
}

func TestPostView(t *testing.T) {
	a := newTestApp(t, nil)
	rec := get(a, "/blog/hello/")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[PostView](t, rec)

	assert.Equal(t, "Hello", v.Post.Title)
	assert.Equal(t, "Hello | Folio Test", v.Meta.Title)
	assert.Equal(t, "https://example.com/blog/hello/", v.Meta.URL)
	assert.Equal(t, "article", v.Meta.OGType)
	assert.Equal(t, []string{"jane"}, slugs(v.Authors))
	assert.Equal(t, []string{"go-tips"}, slugs(v.Categories))
	require.NotNil(t, v.Next)
	assert.Equal(t, "2024/nested", v.Next.Slug)
	require.NotNil(t, v.Prev)
	assert.Equal(t, "second", v.Prev.Slug)
	require.Len(t, v.Outline, 1)
	assert.Equal(t, "intro", v.Outline[0].Anchor)
	require.Len(t, v.Outline[0].Children, 1)
	assert.Equal(t, "details", v.Outline[0].Children[0].Anchor)
	assert.Empty(t, v.Comments)
	assert.NotEmpty(t, v.CSRFToken)
	assert.Contains(t, v.Post.Body.HTML, `id="intro"`)
	assert.Equal(t, "private, no-cache", rec.Header().Get("Cache-Control"))
}

func TestPostViewNestedSlug(t *testing.T) {
	a := newTestApp(t, nil)
	rec := get(a, "/blog/2024/nested/")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[PostView](t, rec)
	assert.Equal(t, "Nested", v.Post.Title)
	assert.Nil(t, v.Next, "oldest post has no older neighbor")
}

func TestNotFound(t *testing.T) {
	a := newTestApp(t, nil)
	for _, target := range []string{
		"/blog/missing/",
		"/blog/draft/",
		"/blog/Hello/",
		"/blog/nested/",
		"/category/missing/",
		"/authors/ghost/",
		"/missing/",
		"/hidden/",
	} {
		t.Run(target, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, get(a, target).Code)
		})
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, nil)
	rec := get(a, "/blog/hello")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog/hello/", rec.Header().Get("Location"))
}

func TestCategoryView(t *testing.T) {
	a := newTestApp(t, nil)
	rec := get(a, "/category/go-tips/")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[CategoryView](t, rec)
	assert.Equal(t, "Go Tips", v.Category.DisplayName)
	assert.Equal(t, []string{"hello"}, slugs(v.Posts))
}

func TestAuthorView(t *testing.T) {
	a := newTestApp(t, nil)
	rec := get(a, "/authors/jane/")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[AuthorView](t, rec)
	assert.Equal(t, "Jane Doe", v.Author.DisplayName)
	assert.Equal(t, []string{"second", "hello"}, slugs(v.Posts))
}

func TestPageView(t *testing.T) {
	a := newTestApp(t, nil)
	rec := get(a, "/about/")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[PageView](t, rec)
	assert.Equal(t, "About", v.Page.Title)
	require.Len(t, v.Outline, 1)
	assert.Equal(t, "about-us", v.Outline[0].Anchor)
	assert.Equal(t, "team", v.Outline[0].Children[0].Anchor)

	rec = get(a, "/legal/terms/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Terms", decode[PageView](t, rec).Page.Title)
}

func TestCommentAPINotMountedByDefault(t *testing.T) {
	a := newTestApp(t, nil)
	require.NotNil(t, a.Store)

	rec := get(a, "/api/comments?post=hello")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/comments",
		strings.NewReader(`{"content":"forged author","post":"hello","userId":"u1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusCreated, rec.Code)
	assert.Empty(t, decode[PostView](t, get(a, "/blog/hello/")).Comments)
}

func TestCommentAPIMounted(t *testing.T) {
	a := newTestApp(t, func(c *SiteConfig) { c.ServeCommentAPI = true })

	rec := get(a, "/api/comments?post=hello")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodPost, "/api/comments",
		strings.NewReader(`{"content":"posted through the api","post":"hello","userId":"u1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	v := decode[PostView](t, get(a, "/blog/hello/"))
	require.Len(t, v.Comments, 1)
	assert.Equal(t, "posted through the api", v.Comments[0].Content)
}

func TestRemoteCommentsNotMounted(t *testing.T) {
	a := newTestApp(t, func(c *SiteConfig) { c.CommentsURL = "http://127.0.0.1:1" })
	assert.Nil(t, a.Store)
	rec := get(a, "/api/comments?post=hello")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The thread degrades to empty when the service is unreachable.
	rec = get(a, "/blog/hello/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[PostView](t, rec).Comments)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, nil)
	get(a, "/blog/hello/")
	get(a, "/blog/missing/")

	rec := get(a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `folio_resolve_total{collection="posts",outcome="found"} 1`)
	assert.Contains(t, body, `folio_resolve_total{collection="posts",outcome="not_found"} 1`)
	assert.Contains(t, body, `folio_content_entities{collection="posts"} 4`)
	assert.Contains(t, body, `folio_http_requests_total{code="200",host="example.com",method="GET",url="/blog/*"} 1`)
}

func TestCustomRoutesAndSessionViewer(t *testing.T) {
	lib := NewLibrary(testContent(), zerolog.Nop())
	require.NoError(t, lib.Reload())
	a := New(SiteConfig{
		SessionSecret: "test-secret",
		DatabasePath:  filepath.Join(t.TempDir(), "comments.db"),
	}, ViewFuncs{}, WithLibrary(lib), WithLogger(zerolog.Nop()), WithCustomRoutes(func(a *App) {
		a.Echo.GET("/login/:id/", func(c echo.Context) error {
			if err := SetViewer(c, c.Param("id")); err != nil {
				return err
			}
			return c.NoContent(http.StatusNoContent)
		})
	}))
	require.NoError(t, a.Init())
	t.Cleanup(func() { a.Close() })

	rec := get(a, "/login/u9/")
	require.Equal(t, http.StatusNoContent, rec.Code)
	var session string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionName {
			session = ck.Name + "=" + ck.Value
		}
	}
	require.NotEmpty(t, session)

	v := decode[PostView](t, get(a, "/blog/hello/", "Cookie", session))
	assert.Equal(t, "u9", v.Viewer)

	v = decode[PostView](t, get(a, "/blog/hello/"))
	assert.Empty(t, v.Viewer)
}
