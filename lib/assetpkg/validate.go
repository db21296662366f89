// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetpkg

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("index does not address an asset")
	ErrDuplicatePath   = errors.New("duplicate asset path")
	ErrEmptyPath       = errors.New("asset path is empty")
	ErrInvalidMIME     = errors.New("invalid MIME type")
	ErrInvalidName     = errors.New("invalid web component")
)

// Validate checks the package invariants and returns every violation
// joined into one error, or nil.
func (p *AssetPackage) Validate() error {
	var errs []error

	if p.Index != NoIndex && !p.HasIndex() {
		errs = append(errs, fmt.Errorf("index %d with %d assets: %w", p.Index, len(p.Assets), ErrIndexOutOfRange))
	}

	seen := make(map[string]int, len(p.Assets))
	for i, asset := range p.Assets {
		if asset.Path == "" {
			errs = append(errs, fmt.Errorf("asset %d: %w", i, ErrEmptyPath))
			continue
		}
		if first, ok := seen[asset.Path]; ok {
			errs = append(errs, fmt.Errorf("assets %d and %d share path %q: %w", first, i, asset.Path, ErrDuplicatePath))
		} else {
			seen[asset.Path] = i
		}
		if err := ValidateMIME(asset.MIME); err != nil {
			errs = append(errs, fmt.Errorf("asset %q: %w", asset.Path, err))
		}
	}

	components := make(map[string]bool, len(p.WebComponents))
	for i, component := range p.WebComponents {
		if component.Name == "" {
			errs = append(errs, fmt.Errorf("web component %d has no name: %w", i, ErrInvalidName))
			continue
		}
		if components[component.Name] {
			errs = append(errs, fmt.Errorf("web component %q declared twice: %w", component.Name, ErrInvalidName))
		}
		components[component.Name] = true
		if component.Path == "" {
			errs = append(errs, fmt.Errorf("web component %q has no path: %w", component.Name, ErrInvalidName))
		}
		langs := make(map[string]bool, len(component.Locales))
		for _, locale := range component.Locales {
			if locale.Lang == "" || langs[locale.Lang] {
				errs = append(errs, fmt.Errorf("web component %q has empty or repeated locale %q: %w",
					component.Name, locale.Lang, ErrInvalidName))
			}
			langs[locale.Lang] = true
		}
	}

	return errors.Join(errs...)
}

// ValidateMIME checks that s is a syntactically valid media type with
// optional parameters.
func ValidateMIME(s string) error {
	if s == "" {
		return fmt.Errorf("empty: %w", ErrInvalidMIME)
	}
	mediaType, _, err := mime.ParseMediaType(s)
	if err != nil {
		return fmt.Errorf("%q: %v: %w", s, err, ErrInvalidMIME)
	}
	// ParseMediaType also accepts bare dispositions like "attachment".
	if !strings.Contains(mediaType, "/") {
		return fmt.Errorf("%q has no subtype: %w", s, ErrInvalidMIME)
	}
	return nil
}
