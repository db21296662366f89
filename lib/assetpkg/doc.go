// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package assetpkg defines the asset package: the immutable object
// graph that an archive file carries. A package bundles the static
// files of one web application build (markup, scripts, styles, binary
// files) together with the web-component metadata and per-language
// locale data attached to those components.
//
// The types carry cbor struct tags with integer keys. They are only
// ever serialized through lib/archive, which wraps them in a versioned
// envelope; see that package for the wire format.
//
// Packages are produced once by the packer (lib/packer) and never
// mutated afterwards. [AssetPackage.Validate] checks the invariants
// every consumer relies on:
//
//   - Index is [NoIndex] or addresses an element of Assets
//   - asset paths are non-empty and unique
//   - every MIME string parses as a media type
//   - web component names and locale languages are non-empty and unique
//     within their scope
package assetpkg
