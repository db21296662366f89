// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// ars-pack builds and inspects asset archives.
//
//	ars-pack pack [--compression zstd|lz4|deflate] [--output file] <manifest>
//	ars-pack inspect <archive>
//
// pack reads a JSONC manifest, collects index.html, favicon.ico, the
// listed assets, and web-component locales from the manifest's
// directory, and writes <name>.ars next to the manifest. inspect
// prints an archive's metadata and contents.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ars/lib/process"
	"github.com/bureau-foundation/ars/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		process.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return process.Usage("no command given")
	}

	switch args[0] {
	case "--version", "version":
		version.Fprint(stdout, "ars-pack")
		return nil
	case "-h", "--help", "help":
		printUsage(stdout)
		return nil
	case "pack":
		return runPack(args[1:], stdout, stderr)
	case "inspect":
		return runInspect(args[1:], stdout)
	default:
		printUsage(stderr)
		return process.Usage("unknown command %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `ars-pack builds and inspects asset archives.

Usage:
  ars-pack pack [flags] <manifest>   build <name>.ars from a manifest
  ars-pack inspect <archive>         print an archive's metadata and contents
  ars-pack --version                 print version information

Run "ars-pack pack --help" for pack flags.
`)
}

// parseFlags parses a subcommand's flags and requires exactly one
// positional argument.
func parseFlags(flagSet *pflag.FlagSet, args []string, what string) (string, error) {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return "", err
		}
		return "", process.Usage("%v", err)
	}
	switch flagSet.NArg() {
	case 0:
		return "", process.Usage("%s: missing %s", flagSet.Name(), what)
	case 1:
		return flagSet.Arg(0), nil
	default:
		return "", process.Usage("%s: unexpected argument: %s", flagSet.Name(), flagSet.Arg(1))
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
