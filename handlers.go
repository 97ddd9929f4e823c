package folio

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/comments"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
)

const (
	noticeLogin    = "Please login before commenting."
	noticeTooFast  = "You are commenting too quickly. Please wait a moment and try again."
	noticeFailed   = "Your comment could not be posted. Please try again later."
	commentFormKey = "content"
)

func (a *App) handleHome(c echo.Context) error {
	posts := a.Library.Snapshot().Published()
	if len(posts) > a.Config.HomePosts {
		posts = posts[:a.Config.HomePosts]
	}
	return renderView(c, http.StatusOK, a.Views.Home, ListView{
		Meta:  a.meta(a.Config.Name, a.Config.Description, BuildURL(a.Config.URL), "website"),
		Posts: posts,
	})
}

func (a *App) handleBlog(c echo.Context) error {
	return renderView(c, http.StatusOK, a.Views.Blog, ListView{
		Meta:  a.meta("Blog", a.Config.Description, BuildURL(a.Config.URL, "blog"), "website"),
		Posts: a.Library.Snapshot().Published(),
	})
}

func (a *App) handlePost(c echo.Context) error {
	if len(wildcardSegments(c.Param("*"))) == 0 {
		return a.handleBlog(c)
	}
	snap := a.Library.Snapshot()
	e, ok := a.resolve(snap, content.Posts, c)
	if !ok {
		return echo.ErrNotFound
	}
	post := e.(content.Post)
	return renderView(c, http.StatusOK, a.Views.Post, a.postView(c, snap, post))
}

func (a *App) handleComment(c echo.Context) error {
	snap := a.Library.Snapshot()
	e, ok := a.resolve(snap, content.Posts, c)
	if !ok {
		return echo.ErrNotFound
	}
	post := e.(content.Post)
	viewer := a.viewer(c)
	draft := c.FormValue(commentFormKey)

	reject := func(code int, notice string, fields []comments.FieldError) error {
		v := a.postView(c, snap, post)
		v.Draft = draft
		v.Notice = notice
		v.Errors = fields
		return renderView(c, code, a.Views.Post, v)
	}

	// Reserve the slot up front; a failed submission gives it back.
	if viewer != "" && !a.commentLimiter.Allow(viewer) {
		return reject(http.StatusTooManyRequests, noticeTooFast, nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), a.requestTimeout())
	defer cancel()
	id, err := a.Comments.Create(ctx, draft, post.Slug, viewer)
	if err != nil {
		if viewer != "" {
			a.commentLimiter.Release(viewer)
		}
		var ve *comments.ValidationError
		switch {
		case errors.Is(err, comments.ErrLoginRequired):
			return reject(http.StatusUnauthorized, noticeLogin, nil)
		case errors.As(err, &ve):
			return reject(http.StatusUnprocessableEntity, "", ve.Fields)
		default:
			return reject(http.StatusServiceUnavailable, noticeFailed, nil)
		}
	}
	return c.Redirect(http.StatusSeeOther, EntityPath(content.Posts, post.Slug)+"#comment-"+id)
}

func (a *App) postView(c echo.Context, snap *content.Snapshot, post content.Post) PostView {
	ctx, cancel := context.WithTimeout(c.Request().Context(), a.requestTimeout())
	defer cancel()

	v := PostView{
		Meta:       a.meta(post.Title, post.Description, EntityURL(a.Config.URL, content.Posts, post.Slug), "article"),
		Post:       post,
		Authors:    snap.Authors(post),
		Categories: snap.Categories(post),
		Outline:    markdown.Outline(post.Body.Raw),
		Comments:   a.Comments.Thread(ctx, post.Slug),
		Viewer:     a.viewer(c),
		CSRFToken:  CsrfToken(c),
	}
	if next, ok := snap.Next(post); ok {
		v.Next = &next
	}
	if prev, ok := snap.Prev(post); ok {
		v.Prev = &prev
	}
	return v
}

func (a *App) handleCategory(c echo.Context) error {
	snap := a.Library.Snapshot()
	e, ok := a.resolve(snap, content.Categories, c)
	if !ok {
		return echo.ErrNotFound
	}
	cat := e.(content.Category)
	return renderView(c, http.StatusOK, a.Views.Category, CategoryView{
		Meta:     a.meta(cat.DisplayName, cat.Description, EntityURL(a.Config.URL, content.Categories, cat.Slug), "website"),
		Category: cat,
		Posts:    snap.PostsInCategory(cat),
	})
}

func (a *App) handleAuthor(c echo.Context) error {
	snap := a.Library.Snapshot()
	e, ok := a.resolve(snap, content.Authors, c)
	if !ok {
		return echo.ErrNotFound
	}
	author := e.(content.Author)
	return renderView(c, http.StatusOK, a.Views.Author, AuthorView{
		Meta:   a.meta(author.DisplayName, author.Description, EntityURL(a.Config.URL, content.Authors, author.Slug), "profile"),
		Author: author,
		Posts:  snap.PostsByAuthor(author),
	})
}

func (a *App) handlePage(c echo.Context) error {
	snap := a.Library.Snapshot()
	e, ok := a.resolve(snap, content.Pages, c)
	if !ok {
		return echo.ErrNotFound
	}
	page := e.(content.Page)
	return renderView(c, http.StatusOK, a.Views.Page, PageView{
		Meta:    a.meta(page.Title, page.Description, EntityURL(a.Config.URL, content.Pages, page.Slug), "website"),
		Page:    page,
		Outline: markdown.Outline(page.Body.Raw),
	})
}

// resolve looks up the entity named by the wildcard route parameter.
// Unpublished entities are reported as missing.
func (a *App) resolve(snap *content.Snapshot, coll content.Collection, c echo.Context) (content.Entity, bool) {
	segs := wildcardSegments(c.Param("*"))
	e, ok := snap.Resolve(coll, segs)
	if ok && !e.Head().Published {
		ok = false
	}
	a.metrics.resolved(coll, ok)
	return e, ok
}

func (a *App) meta(title, description, url, ogType string) PageMeta {
	if title != a.Config.Name {
		title = title + " | " + a.Config.Name
	}
	return PageMeta{Title: title, Description: description, URL: url, OGType: ogType}
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Library.Snapshot())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Library.Snapshot())
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/blog/")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && a.Views.NotFound != nil {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		if a.Views.ServerError != nil {
			_ = RenderStatus(c, code, a.Views.ServerError())
			return
		}
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
