// Package folio is a content site engine built with Go, Echo, and templ.
// It serves posts, pages, authors and categories loaded from markdown
// collections, with a discussion thread under every post.
//
// Users provide their own templ templates via the ViewFuncs struct. A nil
// view makes the route answer with its view model as JSON.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/eringen/folio/comments"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home        func(v ListView) templ.Component
	Blog        func(v ListView) templ.Component
	Post        func(v PostView) templ.Component
	Category    func(v CategoryView) templ.Component
	Author      func(v AuthorView) templ.Component
	Page        func(v PageView) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// ViewerFunc returns the id of the signed-in viewer, or "" for anonymous
// requests.
type ViewerFunc func(c echo.Context) string

// App is the central folio application. It wires together the content
// library, the comment service, handlers, middleware, and user templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Library  *Library
	Store    *comments.Store // nil when comments live in a remote service
	Comments *comments.Aggregator
	Views    ViewFuncs
	Logger   zerolog.Logger
	Registry *prometheus.Registry

	commentLimiter *RateLimiter
	metrics        *siteMetrics
	viewer         ViewerFunc
	customRoutes   []func(*App)
	ready          bool
}

// New creates a folio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
		Logger: zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
	a.Echo.HideBanner = true
	a.viewer = sessionViewer

	for _, opt := range opts {
		opt(a)
	}
	if a.Registry == nil {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return a
}

// Init loads content, opens the comment service, and installs middleware and
// routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	a.metrics = newSiteMetrics(a.Registry)

	if a.Library == nil {
		lib, err := OpenLibrary(a.Config.ContentDir, a.Logger)
		if err != nil {
			return fmt.Errorf("folio: load content: %w", err)
		}
		a.Library = lib
	}
	a.metrics.observeSnapshot(a.Library.Snapshot())
	a.Library.OnReload(a.metrics.observeSnapshot)

	var api comments.API
	if a.Config.CommentsURL != "" {
		api = comments.NewClient(a.Config.CommentsURL, a.Config.CommentTimeout)
	} else {
		store, err := comments.NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("folio: init comment store: %w", err)
		}
		a.Store = store
		api = comments.Direct(store)
	}
	a.Comments = comments.NewAggregator(api, a.Logger, comments.NewMetrics(a.Registry))
	a.commentLimiter = NewRateLimiter(a.Config.CommentLimit, a.Config.CommentWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info().Str("addr", a.Config.Addr).Str("url", a.Config.URL).Msg("serving")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	return errors.Join(err, a.Close())
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", a.handleMetrics)

	if a.Store != nil && a.Config.ServeCommentAPI {
		comments.NewHandler(a.Store, a.Logger).RegisterRoutes(e.Group("/api"))
	}

	e.GET("/", a.handleHome)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/*", a.handlePost)
	e.POST("/blog/*", a.handleComment)
	e.GET("/category/*", a.handleCategory)
	e.GET("/authors/*", a.handleAuthor)
	e.GET("/*", a.handlePage)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.commentLimiter != nil {
		a.commentLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// requestTimeout bounds the comment calls made while rendering one page.
func (a *App) requestTimeout() time.Duration {
	return a.Config.CommentTimeout
}
