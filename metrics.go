package folio

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics owns a registry per App so several Apps (tests) can coexist.
type metrics struct {
	registry      *prometheus.Registry
	purgeFailures prometheus.Counter
	postWrites    *prometheus.CounterVec
	pageCache     *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		purgeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "purge_failures_total",
			Help:      "Cache purges that failed after a content change.",
		}),
		postWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "post_writes_total",
			Help:      "Successful post writes by operation.",
		}, []string{"op"}),
		pageCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "page_cache_requests_total",
			Help:      "Rendered page cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.purgeFailures,
		m.postWrites,
		m.pageCache,
	)
	return m
}

func (m *metrics) middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "folio",
		Subsystem:  "http",
		Registerer: m.registry,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/uploads/")
		},
	})
}

func (m *metrics) handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.registry})
}
