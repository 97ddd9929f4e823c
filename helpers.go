package folio

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// routePrefix is the URL prefix each collection is served under. Pages live
// at the root.
var routePrefix = map[content.Collection]string{
	content.Posts:      "blog",
	content.Pages:      "",
	content.Authors:    "authors",
	content.Categories: "category",
}

// EntityPath returns the site-relative path of an entity, with a trailing
// slash.
func EntityPath(c content.Collection, slug string) string {
	segs := FilterEmpty(append([]string{routePrefix[c]}, content.SplitSlug(slug)...))
	if len(segs) == 0 {
		return "/"
	}
	escaped := make([]string, len(segs))
	for i, s := range segs {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/") + "/"
}

// EntityURL returns the absolute URL of an entity under base.
func EntityURL(base string, c content.Collection, slug string) string {
	return BuildURL(base, FilterEmpty(append([]string{routePrefix[c]}, content.SplitSlug(slug)...))...)
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// wildcardSegments splits the catch-all route parameter into slug segments.
func wildcardSegments(param string) []string {
	if p, err := url.PathUnescape(param); err == nil {
		param = p
	}
	return content.SplitSlug(param)
}
