// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bureau-foundation/ars/lib/archive"
	"github.com/bureau-foundation/ars/lib/assetpkg"
	"github.com/bureau-foundation/ars/lib/compress"
)

const (
	IndexFile   = "index.html"
	FaviconFile = "favicon.ico"
)

// Options configures Pack.
type Options struct {
	// Compression selects archive compression. The zero value is
	// raw deflate; use compress.DefaultArchiveTag for the default.
	Compression compress.ArchiveTag

	// Output overrides the archive path. Defaults to <name>.ars in
	// the manifest's directory.
	Output string

	// Now stamps the created and updated times. Defaults to time.Now.
	Now func() time.Time

	// Logger reports progress. Defaults to discarding.
	Logger *slog.Logger
}

// Result describes a written archive.
type Result struct {
	Path    string
	Package *assetpkg.AssetPackage
	Size    int
}

// Build assembles the package described by manifest from files under
// base. The package is validated before it is returned.
func Build(manifest *Manifest, base string, now time.Time) (*assetpkg.AssetPackage, error) {
	stamp := now.UnixMilli()
	pkg := &assetpkg.AssetPackage{
		Name:      manifest.Name,
		Version:   manifest.Version,
		TargetURL: manifest.TargetURL,
		Index:     assetpkg.NoIndex,
		Created:   stamp,
		Updated:   stamp,
	}

	index, err := readOptional(filepath.Join(base, IndexFile))
	if err != nil {
		return nil, err
	}
	if index != nil {
		pkg.Index = int64(len(pkg.Assets))
		pkg.Assets = append(pkg.Assets, assetpkg.Asset{Path: "/", MIME: IndexMIME, Bytes: index})
	}

	favicon, err := readOptional(filepath.Join(base, FaviconFile))
	if err != nil {
		return nil, err
	}
	if favicon != nil {
		pkg.Assets = append(pkg.Assets, assetpkg.Asset{Path: FaviconFile, MIME: FaviconMIME, Bytes: favicon})
	}

	for _, name := range manifest.Assets {
		archivePath := assetPath(name)
		if (archivePath == IndexFile && index != nil) || (archivePath == FaviconFile && favicon != nil) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(archivePath)))
		if err != nil {
			return nil, fmt.Errorf("reading asset: %w", err)
		}
		pkg.Assets = append(pkg.Assets, assetpkg.Asset{
			Path:  archivePath,
			MIME:  DetectMIME(archivePath),
			Bytes: data,
		})
	}

	names := make([]string, 0, len(manifest.WebComponents))
	for name := range manifest.WebComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		modulePath := manifest.WebComponents[name]
		locales, err := discoverLocales(base, modulePath)
		if err != nil {
			return nil, fmt.Errorf("web component %q: %w", name, err)
		}
		pkg.WebComponents = append(pkg.WebComponents, assetpkg.WebComponent{
			Name:    name,
			Path:    assetPath(modulePath),
			Locales: locales,
		})
	}

	if err := pkg.Validate(); err != nil {
		return nil, fmt.Errorf("package %q: %w", pkg.Name, err)
	}
	return pkg, nil
}

// readOptional returns the contents of a file, or nil when it does not
// exist.
func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// OutputPath is where Pack writes the archive for manifest when no
// output is given.
func OutputPath(manifestPath string, manifest *Manifest) string {
	return filepath.Join(filepath.Dir(manifestPath), manifest.Name+archive.Extension)
}

// Pack reads the manifest at manifestPath, builds the package, and
// writes the archive.
func Pack(manifestPath string, options Options) (*Result, error) {
	now := options.Now
	if now == nil {
		now = time.Now
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	manifest, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	pkg, err := Build(manifest, filepath.Dir(manifestPath), now())
	if err != nil {
		return nil, err
	}

	output := options.Output
	if output == "" {
		output = OutputPath(manifestPath, manifest)
	}
	size, err := archive.WriteFile(output, pkg, options.Compression)
	if err != nil {
		return nil, err
	}

	logger.Info("archive written",
		"path", output,
		"name", pkg.Name,
		"version", pkg.Version,
		"asset_count", len(pkg.Assets),
		"web_components", len(pkg.WebComponents),
		"has_index", pkg.HasIndex(),
		"raw_bytes", pkg.TotalSize(),
		"archive_bytes", size,
		"compression", options.Compression.String(),
	)
	return &Result{Path: output, Package: pkg, Size: size}, nil
}
