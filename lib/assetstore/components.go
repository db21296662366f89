// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/bureau-foundation/ars/lib/assetpkg"
)

const (
	// ComponentPrefix and LocalePrefix root the generated documents
	// for web components.
	ComponentPrefix = "_components/"
	LocalePrefix    = "_locales/"

	loaderMIME = "application/javascript"
)

// ErrInvalidLocale reports locale data that is not a JSON document.
var ErrInvalidLocale = errors.New("locale is not valid JSON")

//go:embed loader.js
var loaderTemplate string

// ComponentLoaderPath is the store path of the loader script for the
// named component.
func ComponentLoaderPath(name string) string {
	return ComponentPrefix + name + ".js"
}

// LocalePath is the store path of one locale document of a component.
func LocalePath(component, lang string) string {
	return LocalePrefix + component + "/" + lang + ".json"
}

// componentURL resolves a component's module path against the public
// URL. Absolute URLs are used as they are.
func componentURL(publicURL, path string) string {
	if parsed, err := url.Parse(path); err == nil && parsed.IsAbs() {
		return path
	}
	return strings.TrimRight(publicURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// renderLoader fills the loader template. Both values are inserted as
// JSON string literals, which are valid JavaScript.
func renderLoader(name, source string) ([]byte, error) {
	quotedName, err := json.Marshal(name)
	if err != nil {
		return nil, err
	}
	quotedSource, err := json.Marshal(source)
	if err != nil {
		return nil, err
	}
	script := strings.NewReplacer(
		"__COMPONENT__", string(quotedName),
		"__SOURCE__", string(quotedSource),
	).Replace(loaderTemplate)
	return []byte(script), nil
}

// addComponents registers a loader script and the locale documents of
// every web component.
func (s *Store) addComponents(components []assetpkg.WebComponent, publicURL string) error {
	for _, component := range components {
		loaderPath := ComponentLoaderPath(component.Name)
		script, err := renderLoader(component.Name, componentURL(publicURL, component.Path))
		if err != nil {
			return &BuildError{Path: loaderPath, Err: err}
		}
		// The loader embeds the public URL, so clients revalidate it.
		prepared, err := prepare(script, loaderMIME, false)
		if err != nil {
			return &BuildError{Path: loaderPath, Err: err}
		}
		if err := s.register(loaderPath, script, prepared); err != nil {
			return err
		}

		for _, locale := range component.Locales {
			localePath := LocalePath(component.Name, locale.Lang)
			if !json.Valid(locale.Bytes) {
				return &BuildError{Path: localePath, Err: ErrInvalidLocale}
			}
			prepared, err := prepare(locale.Bytes, JSONMIME, true)
			if err != nil {
				return &BuildError{Path: localePath, Err: err}
			}
			if err := s.register(localePath, locale.Bytes, prepared); err != nil {
				return err
			}
		}
	}
	return nil
}
