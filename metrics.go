package folio

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eringen/folio/content"
)

type siteMetrics struct {
	resolves *prometheus.CounterVec
	entities *prometheus.GaugeVec
	loadedAt prometheus.Gauge
}

func newSiteMetrics(reg prometheus.Registerer) *siteMetrics {
	m := &siteMetrics{
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_resolve_total",
			Help: "Slug lookups by collection and outcome.",
		}, []string{"collection", "outcome"}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "folio_content_entities",
			Help: "Entities in the current snapshot.",
		}, []string{"collection"}),
		loadedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "folio_content_loaded_timestamp_seconds",
			Help: "Unix time of the last successful content load.",
		}),
	}
	reg.MustRegister(m.resolves, m.entities, m.loadedAt)
	return m
}

func (m *siteMetrics) observeSnapshot(s *content.Snapshot) {
	for _, c := range content.Collections {
		m.entities.WithLabelValues(string(c)).Set(float64(s.Len(c)))
	}
	m.loadedAt.SetToCurrentTime()
}

func (m *siteMetrics) resolved(c content.Collection, found bool) {
	outcome := "found"
	if !found {
		outcome = "not_found"
	}
	m.resolves.WithLabelValues(string(c), outcome).Inc()
}

// requestMetrics records request counts and latencies for every route but
// the metrics endpoint itself.
func (a *App) requestMetrics() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "folio",
		Subsystem:  "http",
		Registerer: a.Registry,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/metrics")
		},
	})
}

func (a *App) handleMetrics(c echo.Context) error {
	h := promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
	h.ServeHTTP(c.Response(), c.Request())
	return nil
}
