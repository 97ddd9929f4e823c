package folio

import (
	"github.com/eringen/folio/comments"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
)

// PageMeta carries per-page metadata into the <head> template.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`    // canonical
	OGType      string `json:"ogType"` // "website" or "article"
}

// ListView is a list of posts: the home page and the blog index.
type ListView struct {
	Meta  PageMeta       `json:"meta"`
	Posts []content.Post `json:"posts"`
}

// PostView is everything a post page shows.
type PostView struct {
	Meta       PageMeta                `json:"meta"`
	Post       content.Post            `json:"post"`
	Authors    []content.Author        `json:"authors"`
	Categories []content.Category      `json:"categories"`
	Next       *content.Post           `json:"next,omitempty"` // next older post
	Prev       *content.Post           `json:"prev,omitempty"` // next newer post
	Outline    []*markdown.OutlineNode `json:"outline"`
	Comments   []comments.Comment      `json:"comments"`
	Viewer     string                  `json:"viewer,omitempty"`
	CSRFToken  string                  `json:"csrfToken,omitempty"`

	// Comment form state after a rejected submission.
	Draft  string                `json:"draft,omitempty"`
	Notice string                `json:"notice,omitempty"`
	Errors []comments.FieldError `json:"errors,omitempty"`
}

// CategoryView lists the posts filed under a category.
type CategoryView struct {
	Meta     PageMeta         `json:"meta"`
	Category content.Category `json:"category"`
	Posts    []content.Post   `json:"posts"`
}

// AuthorView lists the posts written by an author.
type AuthorView struct {
	Meta   PageMeta       `json:"meta"`
	Author content.Author `json:"author"`
	Posts  []content.Post `json:"posts"`
}

// PageView is a standalone page.
type PageView struct {
	Meta    PageMeta                `json:"meta"`
	Page    content.Page            `json:"page"`
	Outline []*markdown.OutlineNode `json:"outline"`
}
