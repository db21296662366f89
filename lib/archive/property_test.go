// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/bureau-foundation/ars/lib/assetpkg"
	"github.com/bureau-foundation/ars/lib/compress"
)

var propertyMIMEs = []string{
	"text/html; charset=utf-8",
	"application/javascript",
	"text/css",
	"image/png",
	"application/octet-stream",
}

// genPackage generates valid packages: unique paths, index addressing
// the first asset when there is one, and unique component names.
func genPackage() gopter.Gen {
	return gopter.CombineGens(
		gen.AlphaString(),
		gen.AlphaString(),
		gen.OneConstOf("/", "/api", "http://localhost:8000"),
		gen.SliceOf(gen.SliceOf(gen.UInt8())),
		gen.SliceOf(gen.AlphaString()),
		gen.Int64(),
	).Map(func(values []any) *assetpkg.AssetPackage {
		bodies := values[3].([][]uint8)
		names := values[4].([]string)

		pkg := &assetpkg.AssetPackage{
			Name:      values[0].(string),
			Version:   values[1].(string),
			TargetURL: values[2].(string),
			Index:     assetpkg.NoIndex,
			Created:   values[5].(int64),
			Updated:   values[5].(int64),
		}
		for i, body := range bodies {
			pkg.Assets = append(pkg.Assets, assetpkg.Asset{
				Path:  fmt.Sprintf("assets/%d.bin", i),
				MIME:  propertyMIMEs[i%len(propertyMIMEs)],
				Bytes: body,
			})
		}
		if len(pkg.Assets) > 0 {
			pkg.Index = 0
		}
		for i, name := range names {
			component := fmt.Sprintf("c%d-%s", i, name)
			pkg.WebComponents = append(pkg.WebComponents, assetpkg.WebComponent{
				Name:    component,
				Path:    component + ".js",
				Locales: []assetpkg.Locale{{Lang: "en", Bytes: []byte(name)}},
			})
		}
		return pkg
	})
}

func TestPropertyRoundtrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Unpack(Encode(x)) equals x for every archive compression", prop.ForAll(
		func(pkg *assetpkg.AssetPackage) bool {
			for _, tag := range []compress.ArchiveTag{compress.ArchiveDeflate, compress.ArchiveZstd, compress.ArchiveLZ4} {
				data, err := Encode(pkg, tag)
				if err != nil {
					return false
				}
				decoded, err := Unpack(data)
				if err != nil || !assetpkg.Equal(decoded, pkg) {
					return false
				}
			}
			return true
		},
		genPackage(),
	))

	properties.TestingRun(t)
}

func TestPropertyTruncationFailsClosed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("every proper prefix of a serialized archive is malformed", prop.ForAll(
		func(pkg *assetpkg.AssetPackage, fraction float64) bool {
			data, err := Serialize(pkg)
			if err != nil {
				return false
			}
			cut := int(fraction * float64(len(data)))
			if cut >= len(data) {
				cut = len(data) - 1
			}
			_, err = Decode(data[:cut])
			var decodeErr *DecodeError
			return errors.As(err, &decodeErr) && decodeErr.Kind == Malformed
		},
		genPackage(),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
