// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress implements the two independent compression stages
// of the asset pipeline.
//
// Archive compression ([CompressArchive], [DecompressArchive]) is
// applied once to the whole serialized archive when it is written to
// disk and undone once when the server starts. It optimizes for size
// and has nothing to do with HTTP.
//
// Transfer compression ([Transfer]) is applied once per asset while
// the asset store is built. The server advertises it with
// Content-Encoding: gzip ([TransferEncoding]) and never compresses on
// the request path.
//
// The stages are never combined implicitly: callers choose which one
// they need.
package compress
