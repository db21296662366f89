// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the asset server's configuration.
//
// Values are layered, later layers overriding earlier ones:
//
//  1. [Default]: host 0.0.0.0, port 8000, 10s shutdown timeout.
//  2. An optional YAML file passed with --config ([LoadFile]).
//  3. SERVER_* environment variables ([ServerConfig.ApplyEnv]).
//  4. Command-line flags, applied by the binary.
//
// ${HOME} and ${VAR:-default} patterns in path fields are expanded
// after loading. [ServerConfig.Validate] reports every problem at
// once as a [*ConfigError]; unreadable or unparseable files fail with
// the same type.
//
// [LoadRuntimeConfig] reads the JSON, JSONC, or YAML object that the
// server publishes at /config.json. The object is served as canonical
// JSON, where every number is a double, so integers beyond ±2^53 are
// rejected at load time.
//
// This package depends on no other ars packages.
package config
