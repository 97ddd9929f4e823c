// Package content holds the typed content collections of a site and the
// read-only snapshot used to resolve slugs and cross-references.
package content

import "time"

// Collection names a set of entities whose slugs are unique among themselves.
type Collection string

const (
	Posts      Collection = "posts"
	Pages      Collection = "pages"
	Authors    Collection = "authors"
	Categories Collection = "categories"
)

// Collections lists every collection in load order.
var Collections = []Collection{Posts, Pages, Authors, Categories}

// Body is a structured document: its markdown source and compiled HTML.
type Body struct {
	Raw  string `json:"raw"`
	HTML string `json:"html"`
}

// Header is the part every entity shares.
type Header struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Published   bool   `json:"published"`
	Body        Body   `json:"body"`
	Source      string `json:"-"` // file the entity was loaded from
}

// Head returns the shared header.
func (h Header) Head() Header { return h }

// Segments returns the slug split into path segments.
func (h Header) Segments() []string { return SplitSlug(h.Slug) }

// Entity is one addressable content record.
type Entity interface {
	Collection() Collection
	Head() Header
}

// Post is a dated article. Authors and Categories hold lookup keys into the
// author and category collections.
type Post struct {
	Header
	Date       time.Time `json:"date"`
	Authors    []string  `json:"authors,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Image      string    `json:"image,omitempty"`
}

func (Post) Collection() Collection { return Posts }

// Page is an undated standalone document.
type Page struct {
	Header
}

func (Page) Collection() Collection { return Pages }

// Author describes a post author.
type Author struct {
	Header
	DisplayName string `json:"displayName"`
	Twitter     string `json:"twitter,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

func (Author) Collection() Collection { return Authors }

// Category groups posts for navigation.
type Category struct {
	Header
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon,omitempty"`
}

func (Category) Collection() Collection { return Categories }

// Source is the raw material of a snapshot, one slice per collection.
type Source struct {
	Posts      []Post
	Pages      []Page
	Authors    []Author
	Categories []Category
}
