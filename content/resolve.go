package content

import "strings"

// Resolve looks up the entity of collection c whose slug equals segments
// joined with "/". It reports false when nothing matches; there is no fuzzy
// matching and no redirect.
func (s *Snapshot) Resolve(c Collection, segments []string) (Entity, bool) {
	idx, ok := s.bySlug[c]
	if !ok {
		return nil, false
	}
	e, ok := idx[strings.Join(segments, "/")]
	return e, ok
}

// Post returns the post with the given slug.
func (s *Snapshot) Post(slug string) (Post, bool) {
	e, ok := s.Resolve(Posts, SplitSlug(slug))
	if !ok {
		return Post{}, false
	}
	return e.(Post), true
}

// Page returns the page with the given slug.
func (s *Snapshot) Page(slug string) (Page, bool) {
	e, ok := s.Resolve(Pages, SplitSlug(slug))
	if !ok {
		return Page{}, false
	}
	return e.(Page), true
}

// Author returns the author with the given slug.
func (s *Snapshot) Author(slug string) (Author, bool) {
	e, ok := s.Resolve(Authors, SplitSlug(slug))
	if !ok {
		return Author{}, false
	}
	return e.(Author), true
}

// Category returns the category with the given slug.
func (s *Snapshot) Category(slug string) (Category, bool) {
	e, ok := s.Resolve(Categories, SplitSlug(slug))
	if !ok {
		return Category{}, false
	}
	return e.(Category), true
}

// StaticParams returns the slug segments of every entity in collection c,
// in load order. Each entry resolves back to its entity.
func (s *Snapshot) StaticParams(c Collection) [][]string {
	var heads []Header
	switch c {
	case Posts:
		for _, p := range s.posts {
			heads = append(heads, p.Header)
		}
	case Pages:
		for _, p := range s.pages {
			heads = append(heads, p.Header)
		}
	case Authors:
		for _, a := range s.authors {
			heads = append(heads, a.Header)
		}
	case Categories:
		for _, cat := range s.categories {
			heads = append(heads, cat.Header)
		}
	}
	params := make([][]string, 0, len(heads))
	for _, h := range heads {
		params = append(params, strings.Split(h.Slug, "/"))
	}
	return params
}
