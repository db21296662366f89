// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package assetserver is the HTTP surface over an [assetstore.Store].
//
// Each request is classified by its path alone:
//
//	/config.json          the auxiliary configuration document
//	path containing "."   the asset at that path (leading "/" removed), or 404
//	anything else         the index document (client-side routing fallback)
//
// Responses are written straight from the store's prepared buffers.
// Bodies are never compressed or transformed per request; the handler
// only maps a [assetstore.PreparedAsset] to status, headers, and body.
// GET and HEAD are supported, conditional requests are answered from
// the stored ETag, and every other method gets 405.
//
// [Metrics] optionally records request counts and store size in a
// Prometheus registry served on a separate listener.
package assetserver
