package folio

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// SiteConfig holds all configuration for a folio site. The mapstructure tags
// let the CLI decode it from a config file or FOLIO_ environment variables.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Folio")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS

	Addr       string `mapstructure:"addr"`       // Listen address (default ":3000")
	ContentDir string `mapstructure:"contentDir"` // Root of the content collections (default "content")
	HomePosts  int    `mapstructure:"homePosts"`  // Posts listed on the home page (default 5)

	// CommentsURL is the base URL of a remote comment service. When empty the
	// site stores comments itself in DatabasePath.
	CommentsURL    string        `mapstructure:"commentsURL"`
	CommentTimeout time.Duration `mapstructure:"commentTimeout"` // Comment request timeout (default 5s)
	DatabasePath   string        `mapstructure:"databasePath"`   // SQLite path (default "data/comments.db")

	// ServeCommentAPI mounts /api/comments over the local store so another
	// folio site can use this one as its comment service. The API takes the
	// author id from the request body and skips CSRF and the per-viewer rate
	// limit, so only enable it behind a trusted network boundary.
	ServeCommentAPI bool `mapstructure:"serveCommentAPI"`

	CommentLimit  int           `mapstructure:"commentLimit"`  // Comments per viewer per window (default 5)
	CommentWindow time.Duration `mapstructure:"commentWindow"` // Comment rate window (default 1m)

	SessionSecret string `mapstructure:"sessionSecret"` // Required: session encryption secret
	CookieSecure  bool   `mapstructure:"cookieSecure"`  // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.HomePosts <= 0 {
		c.HomePosts = 5
	}
	if c.CommentTimeout <= 0 {
		c.CommentTimeout = 5 * time.Second
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/comments.db"
	}
	if c.CommentLimit <= 0 {
		c.CommentLimit = 5
	}
	if c.CommentWindow <= 0 {
		c.CommentWindow = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the default stderr logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithViewer sets how the id of the signed-in viewer is read from a request.
// The default reads it from the session cookie.
func WithViewer(fn ViewerFunc) Option {
	return func(a *App) {
		a.viewer = fn
	}
}

// WithRegistry registers the site metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.Registry = reg
	}
}

// WithLibrary serves content from an already loaded library instead of
// loading ContentDir.
func WithLibrary(l *Library) Option {
	return func(a *App) {
		a.Library = l
	}
}
