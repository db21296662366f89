// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/ars/lib/assetpkg"
	"github.com/bureau-foundation/ars/lib/codec"
)

// FormatVersion is the envelope version written by Serialize and the
// only version Decode accepts.
const FormatVersion = 1

// Extension is the file extension of archive files.
const Extension = ".ars"

type envelope struct {
	Version uint64                 `cbor:"1,keyasint"`
	Package *assetpkg.AssetPackage `cbor:"2,keyasint"`
}

// rawEnvelope defers decoding of the package until the version has
// been checked.
type rawEnvelope struct {
	Version uint64           `cbor:"1,keyasint"`
	Package codec.RawMessage `cbor:"2,keyasint"`
}

// DecodeKind classifies a decode failure.
type DecodeKind int

const (
	// Malformed means the bytes are not a valid archive: truncated,
	// corrupted, or describing a package that breaks its invariants.
	Malformed DecodeKind = iota + 1

	// Incompatible means the bytes are well formed but were written
	// for a different format version or shape.
	Incompatible
)

func (k DecodeKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case Incompatible:
		return "incompatible"
	default:
		return fmt.Sprintf("DecodeKind(%d)", int(k))
	}
}

var (
	ErrMalformed    = errors.New("malformed archive")
	ErrIncompatible = errors.New("incompatible archive")
)

// DecodeError is returned by Decode and everything built on it.
type DecodeError struct {
	Kind DecodeKind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s archive: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformed and ErrIncompatible by kind.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == Malformed
	case ErrIncompatible:
		return e.Kind == Incompatible
	}
	return false
}

func malformed(format string, args ...any) *DecodeError {
	return &DecodeError{Kind: Malformed, Err: fmt.Errorf(format, args...)}
}

func incompatible(format string, args ...any) *DecodeError {
	return &DecodeError{Kind: Incompatible, Err: fmt.Errorf(format, args...)}
}

// classify wraps a CBOR decode error with the matching kind.
func classify(what string, err error) *DecodeError {
	if codec.IsShapeError(err) {
		return incompatible("%s: %w", what, err)
	}
	return malformed("%s: %w", what, err)
}

// Serialize encodes pkg into the uncompressed archive form. The output
// is deterministic: equal packages produce identical bytes.
func Serialize(pkg *assetpkg.AssetPackage) ([]byte, error) {
	if pkg == nil {
		return nil, errors.New("serializing archive: package is nil")
	}
	data, err := codec.Marshal(envelope{Version: FormatVersion, Package: pkg})
	if err != nil {
		return nil, fmt.Errorf("serializing archive %q: %w", pkg.Name, err)
	}
	return data, nil
}

// Decode validates and decodes the uncompressed archive form. Every
// failure is a *DecodeError.
func Decode(data []byte) (*assetpkg.AssetPackage, error) {
	if err := codec.Wellformed(data); err != nil {
		return nil, malformed("checking structure of %d bytes: %w", len(data), err)
	}

	var raw rawEnvelope
	if err := codec.Unmarshal(data, &raw); err != nil {
		return nil, classify("decoding envelope", err)
	}
	if raw.Version != FormatVersion {
		return nil, incompatible("format version %d is not supported (this build reads version %d)",
			raw.Version, FormatVersion)
	}
	if len(raw.Package) == 0 {
		return nil, incompatible("envelope has no package")
	}

	pkg := new(assetpkg.AssetPackage)
	if err := codec.Unmarshal(raw.Package, pkg); err != nil {
		return nil, classify("decoding package", err)
	}

	if err := pkg.Validate(); err != nil {
		return nil, malformed("package %q: %w", pkg.Name, err)
	}
	return pkg, nil
}
