// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/ars/lib/assetpkg"
	"github.com/bureau-foundation/ars/lib/compress"
)

// Encode serializes pkg and applies archive compression, producing the
// bytes of an archive file.
func Encode(pkg *assetpkg.AssetPackage, tag compress.ArchiveTag) ([]byte, error) {
	data, err := Serialize(pkg)
	if err != nil {
		return nil, err
	}
	compressed, err := compress.CompressArchive(data, tag)
	if err != nil {
		return nil, fmt.Errorf("compressing archive %q: %w", pkg.Name, err)
	}
	return compressed, nil
}

// Unpack reverses Encode. Decompression failures are returned as plain
// errors; structural failures as *DecodeError.
func Unpack(data []byte) (*assetpkg.AssetPackage, error) {
	serialized, err := compress.DecompressArchive(data)
	if err != nil {
		return nil, fmt.Errorf("decompressing archive: %w", err)
	}
	return Decode(serialized)
}

// ReadFile reads, decompresses, and decodes the archive at path. The
// returned digest identifies the file contents, see Digest.
func ReadFile(path string) (*assetpkg.AssetPackage, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading archive: %w", err)
	}
	pkg, err := Unpack(data)
	if err != nil {
		return nil, "", fmt.Errorf("archive %s: %w", path, err)
	}
	return pkg, Digest(data), nil
}

// WriteFile encodes pkg and writes it to path. The file is written to
// a temporary sibling first and renamed into place, so a reader never
// sees a partial archive.
func WriteFile(path string, pkg *assetpkg.AssetPackage, tag compress.ArchiveTag) (int, error) {
	data, err := Encode(pkg, tag)
	if err != nil {
		return 0, err
	}

	directory := filepath.Dir(path)
	temp, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file in %s: %w", directory, err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return 0, fmt.Errorf("writing %s: %w", tempPath, err)
	}
	if err := temp.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", tempPath, err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return 0, fmt.Errorf("setting mode on %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return 0, fmt.Errorf("committing archive %s: %w", path, err)
	}
	return len(data), nil
}

// Digest returns the hex BLAKE3-256 digest of archive file bytes. It
// is logged at startup and printed by inspect so operators can tell
// which build a server is running.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
