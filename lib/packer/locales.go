// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/ars/lib/assetpkg"
)

// LocaleDirectory is the directory, next to a component's module,
// holding one <lang>.json file per language.
const LocaleDirectory = "locales"

// discoverLocales reads the locale files of the component whose module
// is at modulePath (relative to base). A missing locales directory
// yields no locales. Files are returned in name order.
func discoverLocales(base, modulePath string) ([]assetpkg.Locale, error) {
	directory := filepath.Join(base, filepath.Dir(filepath.FromSlash(modulePath)), LocaleDirectory)
	entries, err := os.ReadDir(directory)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}

	var locales []assetpkg.Locale
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		file := filepath.Join(directory, entry.Name())
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading locale: %w", err)
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("locale %s is not valid JSON", file)
		}
		locales = append(locales, assetpkg.Locale{
			Lang:  strings.TrimSuffix(entry.Name(), ".json"),
			Bytes: data,
		})
	}
	return locales, nil
}
