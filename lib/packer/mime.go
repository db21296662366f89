// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"mime"
	"path"
	"strings"
)

const (
	IndexMIME   = "text/html; charset=utf-8"
	FaviconMIME = "image/x-icon"
	defaultMIME = "application/octet-stream"
)

// knownTypes pins media types for common frontend files. The asset
// server rewrites application/javascript, text/css, and text/html, so
// those must not depend on the host's mime.types.
var knownTypes = map[string]string{
	".css":         "text/css",
	".gif":         "image/gif",
	".htm":         IndexMIME,
	".html":        IndexMIME,
	".ico":         FaviconMIME,
	".jpeg":        "image/jpeg",
	".jpg":         "image/jpeg",
	".js":          "application/javascript",
	".json":        "application/json",
	".map":         "application/json",
	".mjs":         "application/javascript",
	".png":         "image/png",
	".svg":         "image/svg+xml",
	".txt":         "text/plain; charset=utf-8",
	".wasm":        "application/wasm",
	".webmanifest": "application/manifest+json",
	".webp":        "image/webp",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
}

// DetectMIME returns the media type for a file name from its
// extension, or application/octet-stream.
func DetectMIME(name string) string {
	extension := strings.ToLower(path.Ext(name))
	if known, ok := knownTypes[extension]; ok {
		return known
	}
	if extension != "" {
		if guessed := mime.TypeByExtension(extension); guessed != "" {
			return guessed
		}
	}
	return defaultMIME
}
