// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/ars/lib/assetpkg"
)

var (
	ErrNoIndex         = errors.New("package has no index document")
	ErrIndexOutOfRange = assetpkg.ErrIndexOutOfRange
	ErrDuplicatePath   = assetpkg.ErrDuplicatePath
	ErrNotUTF8         = errors.New("rewritable text asset is not valid UTF-8")
)

// BuildError reports why a store could not be built. Path names the
// offending entry when there is one.
type BuildError struct {
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("building asset store: %v", e.Err)
	}
	return fmt.Sprintf("building asset store: %q: %v", e.Path, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Stats summarizes a built store.
type Stats struct {
	// Entries is the number of responses reachable by path, including
	// generated component and locale documents but not the index.
	Entries int

	// RawBytes and CompressedBytes total every prepared body
	// (including the index) before and after transfer compression.
	RawBytes        int
	CompressedBytes int
}

// Store is the immutable path → response index. The zero value is not
// usable; construct with Build.
type Store struct {
	assets    map[string]PreparedAsset
	index     PreparedAsset
	auxiliary map[string]PreparedAsset
	notFound  PreparedAsset
	stats     Stats
}

// Option configures Build.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	auxiliary     map[string]PreparedAsset
	optionalIndex bool
}

// WithLogger sets the logger for build progress. Build logs nothing by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAuxiliary registers a document built outside the archive (see
// NewJSONDocument) under name, served by Store.Auxiliary.
func WithAuxiliary(name string, document PreparedAsset) Option {
	return func(o *options) {
		o.auxiliary[name] = document
	}
}

// WithOptionalIndex accepts packages without an index document. Index
// then returns the not-found response. An Index value that is out of
// range is still an error.
func WithOptionalIndex() Option {
	return func(o *options) {
		o.optionalIndex = true
	}
}

// Build prepares every asset of pkg for serving under publicURL. It is
// meant to run once at startup; on error nothing may be served.
func Build(pkg *assetpkg.AssetPackage, publicURL string, opts ...Option) (*Store, error) {
	o := &options{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		auxiliary: make(map[string]PreparedAsset),
	}
	for _, opt := range opts {
		opt(o)
	}

	if pkg == nil {
		return nil, &BuildError{Err: errors.New("package is nil")}
	}

	store := &Store{
		assets:    make(map[string]PreparedAsset, len(pkg.Assets)+len(pkg.WebComponents)),
		auxiliary: o.auxiliary,
		notFound:  NotFound(),
	}

	indexPosition := int(pkg.Index)
	switch {
	case pkg.Index == assetpkg.NoIndex && o.optionalIndex:
		store.index = store.notFound
	case pkg.Index == assetpkg.NoIndex:
		return nil, &BuildError{Err: ErrNoIndex}
	case pkg.Index < 0 || pkg.Index >= int64(len(pkg.Assets)):
		return nil, &BuildError{Err: fmt.Errorf("index %d with %d assets: %w", pkg.Index, len(pkg.Assets), ErrIndexOutOfRange)}
	}

	rewrite := newRewriter(pkg.TargetURL, publicURL)
	seen := make(map[string]bool, len(pkg.Assets))

	for i, asset := range pkg.Assets {
		if seen[asset.Path] {
			return nil, &BuildError{Path: asset.Path, Err: ErrDuplicatePath}
		}
		seen[asset.Path] = true

		body, err := rewrite.apply(asset)
		if err != nil {
			return nil, &BuildError{Path: asset.Path, Err: err}
		}

		// The index document must always be revalidated, so that a new
		// deployment's asset references take effect immediately.
		isIndex := i == indexPosition
		prepared, err := prepare(body, asset.MIME, !isIndex)
		if err != nil {
			return nil, &BuildError{Path: asset.Path, Err: err}
		}
		store.count(body, prepared)

		if isIndex {
			store.index = prepared
			continue
		}
		store.assets[asset.Path] = prepared
	}

	if err := store.addComponents(pkg.WebComponents, publicURL); err != nil {
		return nil, err
	}
	store.stats.Entries = len(store.assets)

	o.logger.Info("asset store built",
		"package", pkg.Name,
		"version", pkg.Version,
		"target_url", pkg.TargetURL,
		"public_url", publicURL,
		"rewriting", rewrite.active(),
		"entries", store.stats.Entries,
		"raw_bytes", store.stats.RawBytes,
		"compressed_bytes", store.stats.CompressedBytes,
	)
	return store, nil
}

// register adds a generated entry, rejecting collisions with anything
// already registered.
func (s *Store) register(path string, body []byte, prepared PreparedAsset) error {
	if _, exists := s.assets[path]; exists {
		return &BuildError{Path: path, Err: ErrDuplicatePath}
	}
	s.assets[path] = prepared
	s.count(body, prepared)
	return nil
}

func (s *Store) count(raw []byte, prepared PreparedAsset) {
	s.stats.RawBytes += len(raw)
	s.stats.CompressedBytes += len(prepared.Body)
}

// Get returns the response for path (without a leading separator), or
// the not-found response.
func (s *Store) Get(path string) PreparedAsset {
	if prepared, ok := s.assets[path]; ok {
		return prepared
	}
	return s.notFound
}

// Index returns the index document.
func (s *Store) Index() PreparedAsset {
	return s.index
}

// Auxiliary returns the auxiliary document registered under name, or
// the not-found response.
func (s *Store) Auxiliary(name string) PreparedAsset {
	if prepared, ok := s.auxiliary[name]; ok {
		return prepared
	}
	return s.notFound
}

// NotFound returns the store's not-found response.
func (s *Store) NotFound() PreparedAsset {
	return s.notFound
}

// Stats returns the build summary.
func (s *Store) Stats() Stats {
	return s.stats
}
