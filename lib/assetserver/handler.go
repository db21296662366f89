// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetserver

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/ars/lib/assetstore"
)

const (
	// ConfigPath is the well-known path of the auxiliary
	// configuration document.
	ConfigPath = "/config.json"

	// ConfigDocument is the name the configuration document is
	// registered under with assetstore.WithAuxiliary.
	ConfigDocument = "config"

	// CacheControlCacheable and CacheControlNoStore are the
	// Cache-Control values for cacheable and non-cacheable responses.
	CacheControlCacheable = "public, max-age=604800"
	CacheControlNoStore   = "no-store, no-cache, max-age=0, must-revalidate, proxy-revalidate"

	allowedMethods = "GET, HEAD"
)

// Route is the classification of a request path.
type Route string

const (
	RouteIndex  Route = "index"
	RouteAsset  Route = "asset"
	RouteConfig Route = "config"
)

// Classify maps a request path to its route.
func Classify(path string) Route {
	switch {
	case path == ConfigPath:
		return RouteConfig
	case strings.Contains(path, "."):
		return RouteAsset
	default:
		return RouteIndex
	}
}

// Handler serves a Store. It holds no mutable state, so one Handler
// serves any number of concurrent requests.
type Handler struct {
	store   *assetstore.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger logs every request at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics records every request in metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(h *Handler) {
		h.metrics = metrics
	}
}

// New returns a Handler serving store.
func New(store *assetstore.Store, options ...Option) *Handler {
	if store == nil {
		panic("assetserver.New: store is required")
	}
	h := &Handler{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// Resolve returns the prepared response for a request path and the
// route it was classified as. It never fails.
func (h *Handler) Resolve(path string) (assetstore.PreparedAsset, Route) {
	route := Classify(path)
	switch route {
	case RouteConfig:
		return h.store.Auxiliary(ConfigDocument), route
	case RouteAsset:
		return h.store.Get(strings.TrimPrefix(path, "/")), route
	default:
		return h.store.Index(), route
	}
}

func (h *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	start := time.Now()
	prepared, route := h.Resolve(request.URL.Path)
	status := h.write(writer, request, prepared)

	h.metrics.observe(route, status, time.Since(start))
	h.logger.Debug("request",
		"method", request.Method,
		"path", request.URL.Path,
		"route", string(route),
		"status", status,
	)
}

// write sends prepared and returns the status code written.
func (h *Handler) write(writer http.ResponseWriter, request *http.Request, prepared assetstore.PreparedAsset) int {
	header := writer.Header()

	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		header.Set("Allow", allowedMethods)
		http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return http.StatusMethodNotAllowed
	}

	header.Set("Content-Type", prepared.MIME)
	if prepared.Cacheable {
		header.Set("Cache-Control", CacheControlCacheable)
	} else {
		header.Set("Cache-Control", CacheControlNoStore)
	}
	if prepared.Status == http.StatusOK && prepared.Encoding != "" {
		header.Set("Content-Encoding", prepared.Encoding)
		header.Set("Vary", "Accept-Encoding")
	}
	if prepared.ETag != "" {
		header.Set("ETag", prepared.ETag)
		if prepared.Status == http.StatusOK && etagMatches(request.Header.Get("If-None-Match"), prepared.ETag) {
			writer.WriteHeader(http.StatusNotModified)
			return http.StatusNotModified
		}
	}

	header.Set("Content-Length", strconv.Itoa(len(prepared.Body)))
	writer.WriteHeader(prepared.Status)
	if request.Method != http.MethodHead {
		if _, err := writer.Write(prepared.Body); err != nil {
			h.logger.Debug("writing response body", "path", request.URL.Path, "error", err)
		}
	}
	return prepared.Status
}

// etagMatches applies the weak comparison of If-None-Match: any
// listed tag equal to etag, ignoring a W/ prefix, or "*".
func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for candidate := range strings.SplitSeq(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
