// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/jsonc"
)

// Manifest describes the contents of an archive.
type Manifest struct {
	// Name names the package and the output file (<name>.ars).
	Name string `json:"name"`

	// Version is a semantic version.
	Version string `json:"version"`

	// TargetURL is the placeholder base URL the frontend was built
	// against. "/" disables rewriting.
	TargetURL string `json:"target_url"`

	// Assets lists files to include, relative to the manifest.
	Assets []string `json:"assets"`

	// WebComponents maps component names to their module paths.
	WebComponents map[string]string `json:"web_components"`
}

// ParseManifest strips JSONC comments and trailing commas from data,
// then unmarshals and validates the manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// ReadManifest reads and parses the manifest file at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return manifest, nil
}

// Validate checks the manifest, reporting every problem.
func (m *Manifest) Validate() error {
	var errs []error

	switch {
	case m.Name == "":
		errs = append(errs, errors.New("name is required"))
	case m.Name == "." || m.Name == ".." || strings.ContainsAny(m.Name, `/\`):
		errs = append(errs, fmt.Errorf("name %q cannot be used as a file name", m.Name))
	}

	if _, err := semver.NewVersion(m.Version); err != nil {
		errs = append(errs, fmt.Errorf("version %q: %w", m.Version, err))
	}

	if m.TargetURL == "" {
		errs = append(errs, errors.New("target_url is required (use \"/\" to disable rewriting)"))
	}

	for _, asset := range m.Assets {
		if err := checkRelative(asset); err != nil {
			errs = append(errs, fmt.Errorf("asset: %w", err))
		}
	}

	for name, modulePath := range m.WebComponents {
		if name == "" {
			errs = append(errs, errors.New("web component with an empty name"))
		}
		if err := checkRelative(modulePath); err != nil {
			errs = append(errs, fmt.Errorf("web component %q: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// checkRelative rejects paths that would escape the manifest's
// directory.
func checkRelative(name string) error {
	if name == "" {
		return errors.New("empty path")
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("path %q must be relative and stay inside the manifest directory", name)
	}
	return nil
}

// assetPath is the archive path for a manifest entry: slash-separated
// and cleaned, so "./app.js" and "app.js" are the same asset.
func assetPath(name string) string {
	return path.Clean(filepath.ToSlash(name))
}
