// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package assetstore turns a decoded asset package into an immutable,
// ready-to-serve index.
//
// [Build] does all the work once, before the server accepts
// connections: it rewrites the target URL placeholder in scripts,
// styles, and markup to the runtime public URL, gzip-compresses every
// body, computes ETags, and indexes the results by path. After Build
// returns, a [Store] is never modified. Any number of goroutines may
// call [Store.Get], [Store.Index], and [Store.Auxiliary] concurrently
// without locking; each returns a [PreparedAsset] that shares the
// store's body buffer.
//
// Lookups are total. A path that matches nothing yields the store's
// not-found asset (status 404, plain text, not cacheable) rather than
// an error.
//
// Build fails with a [*BuildError] when the package has no usable
// index document, when two entries would be served at the same path
// (duplicates are rejected, never overwritten), or when a rewritable
// text asset is not valid UTF-8.
//
// Besides the package's own assets, the store serves documents derived
// from its web components:
//
//	_components/<name>.js        loader script that injects the component
//	_locales/<component>/<lang>.json  locale data
//
// and auxiliary JSON documents registered with [WithAuxiliary], such
// as the runtime configuration.
package assetstore
