// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ars/lib/archive"
	"github.com/bureau-foundation/ars/lib/assetpkg"
	"github.com/bureau-foundation/ars/lib/compress"
)

func runInspect(args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	flagSet.SetOutput(stdout)

	path, err := parseFlags(flagSet, args, "archive path")
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	pkg, err := archive.Unpack(data)
	if err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}

	printPackage(stdout, pkg, archiveSummary{
		path:        path,
		digest:      archive.Digest(data),
		compression: compress.DetectArchiveTag(data),
		size:        len(data),
	})
	return nil
}

type archiveSummary struct {
	path        string
	digest      string
	compression compress.ArchiveTag
	size        int
}

func printPackage(w io.Writer, pkg *assetpkg.AssetPackage, summary archiveSummary) {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(writer, "Archive:\t%s\n", summary.path)
	fmt.Fprintf(writer, "Digest:\t%s\n", summary.digest)
	fmt.Fprintf(writer, "Compression:\t%s (%d bytes, %d uncompressed assets)\n",
		summary.compression, summary.size, pkg.TotalSize())
	fmt.Fprintf(writer, "Name:\t%s\n", pkg.Name)
	fmt.Fprintf(writer, "Version:\t%s\n", pkg.Version)
	fmt.Fprintf(writer, "Target URL:\t%s\n", pkg.TargetURL)
	fmt.Fprintf(writer, "Created:\t%s\n", pkg.CreatedTime().UTC().Format(time.RFC3339))
	fmt.Fprintf(writer, "Updated:\t%s\n", pkg.UpdatedTime().UTC().Format(time.RFC3339))
	if index, ok := pkg.IndexAsset(); ok {
		fmt.Fprintf(writer, "Index:\t%d (%s)\n", pkg.Index, index.Path)
	} else {
		fmt.Fprintf(writer, "Index:\tnone\n")
	}
	writer.Flush()

	fmt.Fprintf(w, "\nAssets (%d):\n", len(pkg.Assets))
	writer = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "  PATH\tMIME\tSIZE\n")
	for _, asset := range pkg.Assets {
		fmt.Fprintf(writer, "  %s\t%s\t%d\n", asset.Path, asset.MIME, len(asset.Bytes))
	}
	writer.Flush()

	if len(pkg.WebComponents) == 0 {
		return
	}
	fmt.Fprintf(w, "\nWeb components (%d):\n", len(pkg.WebComponents))
	writer = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "  NAME\tPATH\tLOCALES\n")
	for _, component := range pkg.WebComponents {
		langs := make([]string, 0, len(component.Locales))
		for _, locale := range component.Locales {
			langs = append(langs, locale.Lang)
		}
		fmt.Fprintf(writer, "  %s\t%s\t%v\n", component.Name, component.Path, langs)
	}
	writer.Flush()
}
