// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetpkg

import (
	"bytes"
	"time"
)

// NoIndex is the Index value of a package without an index document.
const NoIndex = -1

// Asset is one file of the package.
type Asset struct {
	// Path is the lookup key the HTTP surface matches against, without
	// a leading separator for ordinary assets ("app.js",
	// "assets/index-4f2a.css"). The index document conventionally uses
	// "/".
	Path string `cbor:"1,keyasint"`

	// MIME is the media type served as Content-Type.
	MIME string `cbor:"2,keyasint"`

	// Bytes is the raw file content.
	Bytes []byte `cbor:"3,keyasint"`
}

// Locale is the per-language message data of a web component.
type Locale struct {
	Lang  string `cbor:"1,keyasint"`
	Bytes []byte `cbor:"2,keyasint"`
}

// WebComponent names a script that can be loaded into a host page on
// demand, with its locales.
type WebComponent struct {
	Name    string   `cbor:"1,keyasint"`
	Path    string   `cbor:"2,keyasint"`
	Locales []Locale `cbor:"3,keyasint"`
}

// AssetPackage is the root of the archive.
type AssetPackage struct {
	Name    string `cbor:"1,keyasint"`
	Version string `cbor:"2,keyasint"`

	// TargetURL is the placeholder base URL the bundler embedded into
	// scripts, styles, and markup. The asset store substitutes the
	// runtime public URL for every occurrence.
	TargetURL string `cbor:"3,keyasint"`

	Assets []Asset `cbor:"4,keyasint"`

	// Index is the position of the index document in Assets, or
	// NoIndex.
	Index int64 `cbor:"5,keyasint"`

	// Created and Updated are Unix timestamps in milliseconds.
	Created int64 `cbor:"6,keyasint"`
	Updated int64 `cbor:"7,keyasint"`

	WebComponents []WebComponent `cbor:"8,keyasint"`
}

// HasIndex reports whether the package designates an index document
// that exists.
func (p *AssetPackage) HasIndex() bool {
	return p.Index >= 0 && p.Index < int64(len(p.Assets))
}

// IndexAsset returns the index document, or false when the package has
// none or Index is out of range.
func (p *AssetPackage) IndexAsset() (Asset, bool) {
	if !p.HasIndex() {
		return Asset{}, false
	}
	return p.Assets[p.Index], true
}

// CreatedTime returns Created as a time.Time in UTC.
func (p *AssetPackage) CreatedTime() time.Time {
	return time.UnixMilli(p.Created).UTC()
}

// UpdatedTime returns Updated as a time.Time in UTC.
func (p *AssetPackage) UpdatedTime() time.Time {
	return time.UnixMilli(p.Updated).UTC()
}

// TotalSize returns the sum of all asset and locale byte lengths.
func (p *AssetPackage) TotalSize() int {
	var total int
	for _, asset := range p.Assets {
		total += len(asset.Bytes)
	}
	for _, component := range p.WebComponents {
		for _, locale := range component.Locales {
			total += len(locale.Bytes)
		}
	}
	return total
}

// Equal reports whether two packages are structurally equal. Nil and
// empty byte buffers and sequences compare equal, since the wire
// format does not distinguish them.
func Equal(a, b *AssetPackage) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Version != b.Version || a.TargetURL != b.TargetURL ||
		a.Index != b.Index || a.Created != b.Created || a.Updated != b.Updated {
		return false
	}
	if len(a.Assets) != len(b.Assets) || len(a.WebComponents) != len(b.WebComponents) {
		return false
	}
	for i := range a.Assets {
		x, y := a.Assets[i], b.Assets[i]
		if x.Path != y.Path || x.MIME != y.MIME || !bytes.Equal(x.Bytes, y.Bytes) {
			return false
		}
	}
	for i := range a.WebComponents {
		x, y := a.WebComponents[i], b.WebComponents[i]
		if x.Name != y.Name || x.Path != y.Path || len(x.Locales) != len(y.Locales) {
			return false
		}
		for j := range x.Locales {
			if x.Locales[j].Lang != y.Locales[j].Lang || !bytes.Equal(x.Locales[j].Bytes, y.Locales[j].Bytes) {
				return false
			}
		}
	}
	return true
}
