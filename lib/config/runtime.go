// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// maxExactInteger is the largest magnitude an integer can have and
// still survive canonical JSON, which writes every number as an
// IEEE-754 double.
const maxExactInteger = 1 << 53

// LoadRuntimeConfig reads the object served at /config.json. Files
// ending in .yaml or .yml are YAML; anything else is JSON, with
// comments and trailing commas allowed. An empty path yields an empty
// object. The top level must be an object, and integers must fit in
// ±2^53 so the served document carries the value as written.
func LoadRuntimeConfig(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("reading runtime config %s: %w", path, err)}
	}

	var document map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &document)
	default:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.UseNumber()
		err = decoder.Decode(&document)
	}
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parsing runtime config %s: %w", path, err)}
	}
	if err := checkIntegers("", document); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("runtime config %s: %w", path, err)}
	}
	if document == nil {
		document = map[string]any{}
	}
	return document, nil
}

// checkIntegers rejects integers that canonical JSON would round.
func checkIntegers(at string, value any) error {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			if err := checkIntegers(at+"."+key, item); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range v {
			if err := checkIntegers(fmt.Sprintf("%s[%d]", at, i), item); err != nil {
				return err
			}
		}
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return nil
		}
		n, err := v.Int64()
		if err != nil || n > maxExactInteger || n < -maxExactInteger {
			return fmt.Errorf("%s: integer %s is outside ±2^53", at, v)
		}
	case int:
		if int64(v) > maxExactInteger || int64(v) < -maxExactInteger {
			return fmt.Errorf("%s: integer %d is outside ±2^53", at, v)
		}
	case int64:
		if v > maxExactInteger || v < -maxExactInteger {
			return fmt.Errorf("%s: integer %d is outside ±2^53", at, v)
		}
	case uint64:
		if v > maxExactInteger {
			return fmt.Errorf("%s: integer %d is outside ±2^53", at, v)
		}
	}
	return nil
}
