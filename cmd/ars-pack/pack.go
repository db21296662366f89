// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ars/lib/compress"
	"github.com/bureau-foundation/ars/lib/packer"
)

func runPack(args []string, stdout, stderr io.Writer) error {
	var (
		compression string
		output      string
		verbose     bool
	)
	flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&compression, "compression", compress.DefaultArchiveTag.String(), "archive compression: zstd, lz4, or deflate")
	flagSet.StringVarP(&output, "output", "o", "", "archive path (default: <name>.ars next to the manifest)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log progress")

	manifestPath, err := parseFlags(flagSet, args, "manifest path")
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	tag, err := compress.ParseArchiveTag(compression)
	if err != nil {
		return fmt.Errorf("--compression: %w", err)
	}

	result, err := packer.Pack(manifestPath, packer.Options{
		Compression: tag,
		Output:      output,
		Logger:      newLogger(stderr, verbose),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %s (%d assets, %d bytes, %s)\n",
		result.Path, len(result.Package.Assets), result.Size, tag)
	return nil
}
