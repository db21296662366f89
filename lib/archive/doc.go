// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive reads and writes asset archive files.
//
// An archive file is the whole-archive-compressed form (see
// lib/compress) of one CBOR data item:
//
//	envelope = {
//	  1: uint,          ; format version, currently 1
//	  2: AssetPackage,  ; see lib/assetpkg for field keys
//	}
//
// There is no magic number or header outside the compressed stream.
// The format version lives inside the envelope and is checked before
// the package is decoded.
//
// [Decode] never returns a partially built package. It first checks
// that the input is exactly one well-formed CBOR item, then decodes,
// then validates the package invariants. Failures are reported as
// [*DecodeError] with kind [Malformed] (the bytes are broken: truncated,
// trailing garbage, invalid UTF-8, violated invariants) or
// [Incompatible] (the bytes are fine but describe a different format
// version or shape). errors.Is matches [ErrMalformed] and
// [ErrIncompatible].
//
// [Serialize] and [Decode] are the structural codec. [Encode],
// [Unpack], [ReadFile], and [WriteFile] add archive compression and
// file I/O on top.
package archive
