// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package packer builds asset archives from a manifest and a directory
// of built frontend files.
//
// A manifest is a JSONC file (JSON with comments and trailing commas):
//
//	{
//	  "name": "demo",
//	  "version": "1.0.0",
//	  "target_url": "/",
//	  "assets": ["app.js", "style.css"],
//	  "web_components": {"user-card": "components/user-card.js"},
//	}
//
// Paths are relative to the manifest's directory. The archive lists
// index.html first (served at "/", and marked as the index) and
// favicon.ico second, when those files exist, followed by the
// manifest's assets in order. Each web component picks up locale files
// from a locales directory next to its module:
//
//	components/user-card.js
//	components/locales/en.json
//	components/locales/fr.json
//
// [Pack] writes the result to <name>.ars beside the manifest.
package packer
