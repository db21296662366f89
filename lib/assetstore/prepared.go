// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gowebpki/jcs"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/ars/lib/compress"
)

const (
	// JSONMIME is the media type of locale and auxiliary documents.
	JSONMIME = "application/json; charset=utf-8"

	notFoundMIME = "text/plain; charset=utf-8"
)

var notFoundBody = []byte("not found")

// PreparedAsset is the ready-to-serve form of one response. Body is
// shared with the store and must not be modified.
type PreparedAsset struct {
	// Body is the response body, already compressed with Encoding.
	Body []byte

	// MIME is the Content-Type.
	MIME string

	// Status is the HTTP status code.
	Status int

	// Cacheable marks responses that clients may cache for a long
	// time. The index document and not-found responses are never
	// cacheable.
	Cacheable bool

	// Encoding is the Content-Encoding of Body, or empty when Body is
	// sent as is.
	Encoding string

	// ETag is a strong entity tag over Body, including the quotes.
	// Empty for not-found responses.
	ETag string
}

// NotFound returns the fixed not-found response.
func NotFound() PreparedAsset {
	return PreparedAsset{
		Body:   notFoundBody,
		MIME:   notFoundMIME,
		Status: http.StatusNotFound,
	}
}

// prepare compresses body and wraps it as a 200 response.
func prepare(body []byte, mimeType string, cacheable bool) (PreparedAsset, error) {
	compressed, err := compress.Transfer(body)
	if err != nil {
		return PreparedAsset{}, err
	}
	return PreparedAsset{
		Body:      compressed,
		MIME:      mimeType,
		Status:    http.StatusOK,
		Cacheable: cacheable,
		Encoding:  compress.TransferEncoding,
		ETag:      entityTag(compressed),
	}, nil
}

// entityTag derives a strong ETag from the first 128 bits of the
// BLAKE3 digest of the encoded body.
func entityTag(body []byte) string {
	sum := blake3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// NewJSONDocument encodes value as canonical JSON (RFC 8785: sorted
// keys, no insignificant whitespace) and prepares it as a cacheable
// document. The same value always yields the same body bytes.
func NewJSONDocument(value any) (PreparedAsset, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return PreparedAsset{}, fmt.Errorf("encoding JSON document: %w", err)
	}
	canonical, err := jcs.Transform(encoded)
	if err != nil {
		return PreparedAsset{}, fmt.Errorf("canonicalizing JSON document: %w", err)
	}
	return prepare(canonical, JSONMIME, true)
}
