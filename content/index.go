package content

import (
	"fmt"
	"strings"
)

// IndexIntegrityError reports two entities of one collection sharing a slug.
// A snapshot is never built when this happens.
type IndexIntegrityError struct {
	Collection Collection
	Slug       string
	First      string // source of the entity indexed first
	Second     string
}

func (e *IndexIntegrityError) Error() string {
	msg := fmt.Sprintf("content: duplicate slug %q in %s", e.Slug, e.Collection)
	if e.First != "" || e.Second != "" {
		msg += fmt.Sprintf(" (%s, %s)", e.First, e.Second)
	}
	return msg
}

// Snapshot is an immutable index of all collections. It is safe for
// concurrent use without locking.
type Snapshot struct {
	bySlug     map[Collection]map[string]Entity
	posts      []Post
	pages      []Page
	authors    []Author
	categories []Category
	published  []Post
}

// Load indexes src by collection and normalized slug. Entity slugs are
// normalized in the returned snapshot.
func Load(src Source) (*Snapshot, error) {
	s := &Snapshot{bySlug: make(map[Collection]map[string]Entity, len(Collections))}
	for _, c := range Collections {
		s.bySlug[c] = make(map[string]Entity)
	}
	for _, p := range src.Posts {
		p.Slug = NormalizeSlug(p.Slug)
		if err := s.add(p); err != nil {
			return nil, err
		}
		s.posts = append(s.posts, p)
	}
	for _, p := range src.Pages {
		p.Slug = NormalizeSlug(p.Slug)
		if err := s.add(p); err != nil {
			return nil, err
		}
		s.pages = append(s.pages, p)
	}
	for _, a := range src.Authors {
		a.Slug = NormalizeSlug(a.Slug)
		if err := s.add(a); err != nil {
			return nil, err
		}
		s.authors = append(s.authors, a)
	}
	for _, c := range src.Categories {
		c.Slug = NormalizeSlug(c.Slug)
		if err := s.add(c); err != nil {
			return nil, err
		}
		s.categories = append(s.categories, c)
	}
	s.published = sortPublished(s.posts)
	return s, nil
}

func (s *Snapshot) add(e Entity) error {
	slug := e.Head().Slug
	idx := s.bySlug[e.Collection()]
	if prev, ok := idx[slug]; ok {
		return &IndexIntegrityError{
			Collection: e.Collection(),
			Slug:       slug,
			First:      prev.Head().Source,
			Second:     e.Head().Source,
		}
	}
	idx[slug] = e
	return nil
}

// Len returns the number of entities in collection c.
func (s *Snapshot) Len(c Collection) int {
	return len(s.bySlug[c])
}

// PostList returns every post, published or not, in load order.
func (s *Snapshot) PostList() []Post { return s.posts }

// PageList returns every page in load order.
func (s *Snapshot) PageList() []Page { return s.pages }

// AuthorList returns every author in load order.
func (s *Snapshot) AuthorList() []Author { return s.authors }

// CategoryList returns every category in load order.
func (s *Snapshot) CategoryList() []Category { return s.categories }

// NormalizeSlug joins the non-empty "/" segments of slug. Case is preserved.
func NormalizeSlug(slug string) string {
	return strings.Join(SplitSlug(slug), "/")
}

// SplitSlug splits slug on "/" and drops empty segments.
func SplitSlug(slug string) []string {
	var out []string
	for _, seg := range strings.Split(slug, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
