package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics owns its registry so that several routers can coexist in one process.
type metrics struct {
	registry         *prometheus.Registry
	requestDuration  *prometheus.HistogramVec
	contactsReceived prometheus.Counter
	imagesUploaded   prometheus.Counter
	loginAttempts    *prometheus.CounterVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portfolio",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		contactsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "contact_messages_total",
			Help:      "Contact messages stored.",
		}),
		imagesUploaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "images_uploaded_total",
			Help:      "Images pushed to the object store.",
		}),
		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "login_attempts_total",
			Help:      "Admin login attempts by result.",
		}, []string{"result"}),
	}
}

// instrument records request durations labelled with the chi route pattern, not the raw path.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(srw.status)).
			Observe(time.Since(start).Seconds())
	})
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
