package content

import (
	"slices"
	"strings"
)

// Authors resolves the post's author refs in declared order. Refs with no
// matching author are dropped.
func (s *Snapshot) Authors(p Post) []Author {
	var out []Author
	for _, ref := range p.Authors {
		if a, ok := s.Author(ref); ok {
			out = append(out, a)
		}
	}
	return out
}

// Categories resolves the post's category refs in declared order. Both the
// ref and the category slug are compared through CategoryKey. Dangling refs
// are dropped and each category appears once.
func (s *Snapshot) Categories(p Post) []Category {
	var out []Category
	seen := make(map[string]struct{})
	for _, ref := range p.Categories {
		key := CategoryKey(ref)
		if _, dup := seen[key]; dup {
			continue
		}
		for _, c := range s.categories {
			if CategoryKey(c.Slug) == key {
				seen[key] = struct{}{}
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// PostsInCategory returns the published posts, newest first, with a ref
// matching c.
func (s *Snapshot) PostsInCategory(c Category) []Post {
	key := CategoryKey(c.Slug)
	var out []Post
	for _, p := range s.published {
		for _, ref := range p.Categories {
			if CategoryKey(ref) == key {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// PostsByAuthor returns the published posts, newest first, that reference a.
func (s *Snapshot) PostsByAuthor(a Author) []Post {
	var out []Post
	for _, p := range s.published {
		for _, ref := range p.Authors {
			if NormalizeSlug(ref) == a.Slug {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Published returns the published posts, newest first. Posts sharing a date
// keep their load order.
func (s *Snapshot) Published() []Post {
	return s.published
}

// Next returns the post that follows p when reading from newest to oldest.
func (s *Snapshot) Next(p Post) (Post, bool) {
	return NextChronological(p, s.published)
}

// Prev returns the post that precedes p when reading from newest to oldest.
func (s *Snapshot) Prev(p Post) (Post, bool) {
	return PrevChronological(p, s.published)
}

// NextChronological returns the newest published post dated strictly before
// p whose slug differs from p's. When several candidates share that date the
// pick is whichever the stable date sort puts first; content authors should
// not rely on it.
func NextChronological(p Post, published []Post) (Post, bool) {
	for _, q := range sortPublished(published) {
		if q.Date.Before(p.Date) && q.Slug != p.Slug {
			return q, true
		}
	}
	return Post{}, false
}

// PrevChronological returns the oldest published post dated strictly after p
// whose slug differs from p's.
func PrevChronological(p Post, published []Post) (Post, bool) {
	sorted := sortPublished(published)
	for i := len(sorted) - 1; i >= 0; i-- {
		q := sorted[i]
		if q.Date.After(p.Date) && q.Slug != p.Slug {
			return q, true
		}
	}
	return Post{}, false
}

// sortPublished returns the published posts of in, date descending. The sort
// is stable and in is not modified.
func sortPublished(in []Post) []Post {
	out := make([]Post, 0, len(in))
	for _, p := range in {
		if p.Published {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Post) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// CategoryKey normalizes a category ref or slug for comparison: every "/"
// segment is slugified and empty segments are dropped.
func CategoryKey(s string) string {
	var segs []string
	for _, seg := range strings.Split(s, "/") {
		if seg = Slugify(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	return strings.Join(segs, "/")
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
