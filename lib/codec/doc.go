// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration used for
// asset archives.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, so two packs of
// the same build directory yield byte-identical archives and the same
// digest.
//
// The decoder is strict. It rejects duplicate map keys, indefinite
// lengths, tags, invalid UTF-8 in text strings, trailing bytes, and
// map keys that the destination struct does not declare.
//
//	data, err := codec.Marshal(value)
//	err = codec.Wellformed(data)
//	err = codec.Unmarshal(data, &value)
//
// [IsShapeError] separates "the bytes are broken" from "the bytes are
// fine but describe something else", which lib/archive reports as
// malformed and incompatible archives respectively.
//
// # Struct Tag Rules
//
// Archive types use `cbor` tags with integer keys (`cbor:"1,keyasint"`)
// to keep the encoding compact. Key numbers are part of the archive
// format: never renumber a field, only append new ones together with
// a format version bump.
package codec
