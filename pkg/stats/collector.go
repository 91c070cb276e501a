package stats

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Collector struct {
	reg *prometheus.Registry

	RecordsProcessed *prometheus.CounterVec // dataset, kind
	RecordsSkipped   *prometheus.CounterVec // dataset

	Imports        *prometheus.CounterVec // dataset, result: success|failure
	ImportDuration *prometheus.HistogramVec

	QueuePublished  prometheus.Counter
	QueueSuppressed prometheus.Counter

	DatabaseWrites *prometheus.CounterVec // collection

	Requests *prometheus.CounterVec // route, status
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RecordsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lc_records_processed_total",
			Help: "Records extracted from imported documents.",
		}, []string{"dataset", "kind"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lc_records_skipped_total",
			Help: "Records skipped because they were incomplete.",
		}, []string{"dataset"}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lc_imports_total",
			Help: "Dataset imports by result.",
		}, []string{"dataset", "result"}),
		ImportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lc_import_duration_seconds",
			Help:    "Duration of a full dataset import.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 15),
		}, []string{"dataset"}),
		QueuePublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lc_queue_published_total",
			Help: "Records published to the realtime queue.",
		}),
		QueueSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lc_queue_suppressed_total",
			Help: "Unchanged records not published again.",
		}),
		DatabaseWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lc_database_writes_total",
			Help: "Records upserted into the document store.",
		}, []string{"collection"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lc_api_requests_total",
			Help: "Web API requests by route and status.",
		}, []string{"route", "status"}),
	}

	reg.MustRegister(
		c.RecordsProcessed, c.RecordsSkipped,
		c.Imports, c.ImportDuration,
		c.QueuePublished, c.QueueSuppressed,
		c.DatabaseWrites, c.Requests,
	)

	return c
}

// ObserveImport records the outcome of one dataset import.
func (c *Collector) ObserveImport(dataset string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}

	c.Imports.WithLabelValues(dataset, result).Inc()
	c.ImportDuration.WithLabelValues(dataset).Observe(duration.Seconds())
}

// ObserveRecords adds the extraction counts of one import.
func (c *Collector) ObserveRecords(dataset string, connections, vehicles, alerts, skipped int) {
	c.RecordsProcessed.WithLabelValues(dataset, "connection").Add(float64(connections))
	c.RecordsProcessed.WithLabelValues(dataset, "vehicle").Add(float64(vehicles))
	c.RecordsProcessed.WithLabelValues(dataset, "alert").Add(float64(alerts))
	c.RecordsSkipped.WithLabelValues(dataset).Add(float64(skipped))
}

func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	log.Info().Str("listen", addr).Msg("Metrics server listening")
	return srv
}
