// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"bytes"
	"mime"
	"unicode/utf8"

	"github.com/bureau-foundation/ars/lib/assetpkg"
)

// rewritableTypes are the media types whose bodies may embed the
// target URL placeholder.
var rewritableTypes = map[string]bool{
	"application/javascript": true,
	"text/javascript":        true,
	"text/css":               true,
	"text/html":              true,
}

// isRewritable reports whether assets of mimeType get the target URL
// substituted. Parameters such as charset are ignored.
func isRewritable(mimeType string) bool {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	return rewritableTypes[mediaType]
}

// rewriter substitutes the public URL for the target URL placeholder.
type rewriter struct {
	target []byte
	public []byte
}

func newRewriter(targetURL, publicURL string) rewriter {
	return rewriter{target: []byte(targetURL), public: []byte(publicURL)}
}

// active reports whether rewritable assets are inspected. A root or
// empty target never rewrites: replacing "/" would corrupt every path
// in the asset.
func (r rewriter) active() bool {
	target := string(r.target)
	return target != "" && target != "/"
}

// apply returns the body to serve for asset. Non-rewritable assets
// come back unchanged and uncopied. Rewritable assets must be UTF-8
// whenever the target is not the root, even if it already equals the
// public URL.
func (r rewriter) apply(asset assetpkg.Asset) ([]byte, error) {
	if !r.active() || !isRewritable(asset.MIME) {
		return asset.Bytes, nil
	}
	if !utf8.Valid(asset.Bytes) {
		return nil, ErrNotUTF8
	}
	if bytes.Equal(r.target, r.public) {
		return asset.Bytes, nil
	}
	return bytes.ReplaceAll(asset.Bytes, r.target, r.public), nil
}
