// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetpkg

import (
	"errors"
	"testing"
)

func samplePackage() *AssetPackage {
	return &AssetPackage{
		Name:      "demo",
		Version:   "1.2.3",
		TargetURL: "/",
		Assets: []Asset{
			{Path: "/", MIME: "text/html; charset=utf-8", Bytes: []byte("<html></html>")},
			{Path: "app.js", MIME: "application/javascript", Bytes: []byte("console.log(1)")},
		},
		Index:   0,
		Created: 1700000000000,
		Updated: 1700000000000,
		WebComponents: []WebComponent{
			{Name: "card", Path: "card.js", Locales: []Locale{{Lang: "en", Bytes: []byte(`{}`)}}},
		},
	}
}

func TestValidateAcceptsWellFormedPackage(t *testing.T) {
	if err := samplePackage().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	noIndex := samplePackage()
	noIndex.Index = NoIndex
	if err := noIndex.Validate(); err != nil {
		t.Fatalf("Validate with NoIndex: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AssetPackage)
		want   error
	}{
		{"index_past_end", func(p *AssetPackage) { p.Index = 2 }, ErrIndexOutOfRange},
		{"index_negative", func(p *AssetPackage) { p.Index = -5 }, ErrIndexOutOfRange},
		{"duplicate_path", func(p *AssetPackage) { p.Assets[1].Path = "/" }, ErrDuplicatePath},
		{"empty_path", func(p *AssetPackage) { p.Assets[1].Path = "" }, ErrEmptyPath},
		{"bad_mime", func(p *AssetPackage) { p.Assets[1].MIME = "not a mime" }, ErrInvalidMIME},
		{"mime_without_subtype", func(p *AssetPackage) { p.Assets[1].MIME = "attachment" }, ErrInvalidMIME},
		{"component_without_name", func(p *AssetPackage) { p.WebComponents[0].Name = "" }, ErrInvalidName},
		{"repeated_locale", func(p *AssetPackage) {
			p.WebComponents[0].Locales = append(p.WebComponents[0].Locales, Locale{Lang: "en"})
		}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := samplePackage()
			tt.mutate(pkg)
			err := pkg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIndexAsset(t *testing.T) {
	pkg := samplePackage()
	asset, ok := pkg.IndexAsset()
	if !ok || asset.Path != "/" {
		t.Errorf("IndexAsset() = %+v, %v; want path \"/\"", asset, ok)
	}

	pkg.Index = NoIndex
	if _, ok := pkg.IndexAsset(); ok {
		t.Error("IndexAsset() reported an index for NoIndex")
	}
}

func TestEqual(t *testing.T) {
	a, b := samplePackage(), samplePackage()
	if !Equal(a, b) {
		t.Fatal("identical packages compare unequal")
	}

	// Nil and empty buffers are indistinguishable on the wire.
	a.Assets[0].Bytes = nil
	b.Assets[0].Bytes = []byte{}
	if !Equal(a, b) {
		t.Error("nil and empty byte buffers compare unequal")
	}

	b.WebComponents[0].Locales[0].Bytes = []byte(`{"a":1}`)
	if Equal(a, b) {
		t.Error("packages with different locale bytes compare equal")
	}

	if Equal(a, nil) || !Equal(nil, nil) {
		t.Error("nil handling is wrong")
	}
}

func TestTotalSize(t *testing.T) {
	pkg := samplePackage()
	want := len("<html></html>") + len("console.log(1)") + len(`{}`)
	if got := pkg.TotalSize(); got != want {
		t.Errorf("TotalSize() = %d, want %d", got, want)
	}
}
