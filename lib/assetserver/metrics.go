// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bureau-foundation/ars/lib/assetstore"
)

// Metrics holds the server's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	storeEntries         prometheus.Gauge
	storeRawBytes        prometheus.Gauge
	storeCompressedBytes prometheus.Gauge
	packageInfo          *prometheus.GaugeVec
}

// NewMetrics registers the server's collectors, plus the Go runtime
// and process collectors, in a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ars_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ars_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		storeEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ars_store_entries",
				Help: "Number of responses addressable by path, excluding the index",
			},
		),
		storeRawBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ars_store_raw_bytes",
				Help: "Total size of prepared bodies before transfer compression",
			},
		),
		storeCompressedBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ars_store_compressed_bytes",
				Help: "Total size of prepared bodies as served",
			},
		),
		packageInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ars_package_info",
				Help: "Served asset package, always 1",
			},
			[]string{"name", "version", "digest"},
		),
	}
}

// ObserveStore publishes the size of a built store and the identity
// of the package it serves.
func (m *Metrics) ObserveStore(stats assetstore.Stats, name, version, digest string) {
	if m == nil {
		return
	}
	m.storeEntries.Set(float64(stats.Entries))
	m.storeRawBytes.Set(float64(stats.RawBytes))
	m.storeCompressedBytes.Set(float64(stats.CompressedBytes))
	m.packageInfo.WithLabelValues(name, version, digest).Set(1)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observe(route Route, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(string(route), strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(string(route)).Observe(duration.Seconds())
}
