// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the network lifecycle shared by the ars
// binaries.
//
// [HTTPServer] binds a TCP listener, signals readiness, serves a
// caller-provided handler, and shuts down gracefully when its context
// is cancelled. [Run] drives several servers as one unit: the first
// failure stops the others, and cancelling the context drains them
// all.
//
// Binaries compose these pieces in their own main() function. The
// package provides building blocks, not a runtime.
package service
