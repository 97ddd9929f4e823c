package comments

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// API is the contract of a comment service as seen by the aggregator.
type API interface {
	List(ctx context.Context, post string) ([]Comment, error)
	Create(ctx context.Context, n NewComment) (string, error)
}

// Metrics counts aggregator outcomes.
type Metrics struct {
	FetchFailures prometheus.Counter
	Creates       *prometheus.CounterVec
}

// NewMetrics registers the aggregator metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_comment_fetch_failures_total",
			Help: "Comment thread fetches that degraded to an empty thread.",
		}),
		Creates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_comment_creates_total",
			Help: "Comment submissions by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.FetchFailures, m.Creates)
	return m
}

// Aggregator loads and appends the discussion thread of a post. It holds no
// state between requests.
type Aggregator struct {
	api     API
	logger  zerolog.Logger
	metrics *Metrics
}

// NewAggregator creates an aggregator over api. metrics may be nil.
func NewAggregator(api API, logger zerolog.Logger, metrics *Metrics) *Aggregator {
	return &Aggregator{api: api, logger: logger, metrics: metrics}
}

// Fetch returns the comments of post as the service stores them. Any failure
// yields an empty thread.
func (a *Aggregator) Fetch(ctx context.Context, post string) []Comment {
	list, err := a.api.List(ctx, post)
	if err != nil {
		a.logger.Warn().Err(err).Str("post", post).Msg("comments unavailable, showing none")
		if a.metrics != nil {
			a.metrics.FetchFailures.Inc()
		}
		return []Comment{}
	}
	return list
}

// Thread fetches the comments of post and orders them newest first.
func (a *Aggregator) Thread(ctx context.Context, post string) []Comment {
	return Order(a.Fetch(ctx, post))
}

// Create submits a comment on behalf of authorID. Anonymous viewers get
// ErrLoginRequired and invalid drafts a *ValidationError, both without
// contacting the service. Failed submissions are not retried.
func (a *Aggregator) Create(ctx context.Context, content, post, authorID string) (string, error) {
	if strings.TrimSpace(authorID) == "" {
		a.count("login_required")
		return "", ErrLoginRequired
	}
	if err := ValidateDraft(content); err != nil {
		a.count("invalid")
		return "", err
	}
	id, err := a.api.Create(ctx, NewComment{Content: content, Post: post, UserID: authorID})
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			a.count("invalid")
			return "", err
		}
		a.count("failed")
		a.logger.Error().Err(err).Str("post", post).Msg("comment submission failed")
		if !errors.Is(err, ErrTransport) {
			err = errors.Join(ErrTransport, err)
		}
		return "", err
	}
	a.count("created")
	return id, nil
}

func (a *Aggregator) count(outcome string) {
	if a.metrics != nil {
		a.metrics.Creates.WithLabelValues(outcome).Inc()
	}
}

// Order returns comments newest first. Comments with equal timestamps keep
// their arrival order. The input is not modified.
func Order(comments []Comment) []Comment {
	out := slices.Clone(comments)
	slices.SortStableFunc(out, func(a, b Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Direct adapts a Repository to the API contract so a site can aggregate
// comments from a store in the same process.
func Direct(repo Repository) API {
	return direct{repo: repo}
}

type direct struct {
	repo Repository
}

func (d direct) List(ctx context.Context, post string) ([]Comment, error) {
	return d.repo.ListByPost(ctx, post)
}

func (d direct) Create(ctx context.Context, n NewComment) (string, error) {
	c, err := d.repo.Create(ctx, n)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}
