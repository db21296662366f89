// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. The same package always
// produces identical archive bytes.
var encMode cbor.EncMode

// decMode is the strict decoder. Archives come from disk and may be
// truncated or corrupted, so everything that Core Deterministic
// Encoding never produces is rejected rather than tolerated.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		TagsMd:      cbor.TagsForbidden,
		UTF8:        cbor.UTF8RejectInvalid,
		// A field this build does not know about means the archive
		// was written by a different format revision.
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Trailing bytes after the first
// data item are an error.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Wellformed checks that data holds exactly one well-formed CBOR data
// item without decoding it into Go values.
func Wellformed(data []byte) error {
	return decMode.Wellformed(data)
}

// RawMessage is a raw encoded CBOR value. It is used to delay decoding
// of an envelope's payload until the envelope header has been checked.
type RawMessage = cbor.RawMessage

// IsShapeError reports whether err came from well-formed CBOR whose
// structure does not match the Go type it was decoded into: a type
// mismatch or a field the type does not declare. Any other decode
// error means the bytes themselves are broken.
func IsShapeError(err error) bool {
	var typeErr *cbor.UnmarshalTypeError
	var fieldErr *cbor.UnknownFieldError
	return errors.As(err, &typeErr) || errors.As(err, &fieldErr)
}
