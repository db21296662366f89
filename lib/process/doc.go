// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the ars binaries:
// reporting a fatal error from run() to stderr before the structured
// logger exists, and choosing the exit code. Usage mistakes exit with
// code 2, everything else with 1.
package process
