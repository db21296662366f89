// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// ars-server serves one asset archive over HTTP.
//
// At startup it reads the archive named by SERVER_ASSET_PACKAGE (or
// --asset-package), decodes it, and prepares every response in memory.
// Any failure in that sequence exits non-zero before a socket is
// opened. Paths without a "." get the index document so client-side
// routes work; /config.json serves the runtime configuration document.
//
// Configuration comes from an optional YAML file (--config), then
// SERVER_* environment variables, then flags. See lib/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ars/lib/archive"
	"github.com/bureau-foundation/ars/lib/assetserver"
	"github.com/bureau-foundation/ars/lib/assetstore"
	"github.com/bureau-foundation/ars/lib/config"
	"github.com/bureau-foundation/ars/lib/process"
	"github.com/bureau-foundation/ars/lib/service"
	"github.com/bureau-foundation/ars/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath   string
		address      string
		publicURL    string
		assetPackage string
		showVersion  bool
	)

	flagSet := pflag.NewFlagSet("ars-server", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file")
	flagSet.StringVar(&address, "address", "", "listen address host:port (overrides SERVER_ADDRESS)")
	flagSet.StringVar(&publicURL, "public-url", "", "public base URL (overrides SERVER_PUBLIC_URL)")
	flagSet.StringVar(&assetPackage, "asset-package", "", "archive to serve (overrides SERVER_ASSET_PACKAGE)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return process.Usage("%v", err)
	}
	if showVersion {
		version.Print("ars-server")
		return nil
	}
	if flagSet.NArg() > 0 {
		return process.Usage("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("address") {
		cfg.Address = address
	}
	if flagSet.Changed("public-url") {
		cfg.PublicURL = publicURL
	}
	if flagSet.Changed("asset-package") {
		cfg.AssetPackage = assetPackage
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	servers, err := setup(cfg, logger)
	if err != nil {
		return err
	}
	return service.Run(ctx, servers...)
}

// setup loads the archive and builds everything the servers need.
// Nothing listens until the returned servers are run.
func setup(cfg *config.ServerConfig, logger *slog.Logger) ([]*service.HTTPServer, error) {
	pkg, digest, err := archive.ReadFile(cfg.AssetPackage)
	if err != nil {
		return nil, fmt.Errorf("loading asset package: %w", err)
	}
	logger.Info("asset package loaded",
		"archive", cfg.AssetPackage,
		"name", pkg.Name,
		"version", pkg.Version,
		"digest", digest,
		"asset_count", len(pkg.Assets),
		"created", pkg.CreatedTime(),
	)

	runtimeConfig, err := config.LoadRuntimeConfig(cfg.RuntimeConfig)
	if err != nil {
		return nil, err
	}
	configDocument, err := assetstore.NewJSONDocument(runtimeConfig)
	if err != nil {
		return nil, fmt.Errorf("runtime config %s: %w", cfg.RuntimeConfig, err)
	}

	store, err := assetstore.Build(pkg, cfg.ResolvedPublicURL(),
		assetstore.WithAuxiliary(assetserver.ConfigDocument, configDocument),
		assetstore.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", cfg.AssetPackage, err)
	}

	options := []assetserver.Option{assetserver.WithLogger(logger)}
	var metrics *assetserver.Metrics
	if cfg.MetricsAddress != "" {
		metrics = assetserver.NewMetrics()
		metrics.ObserveStore(store.Stats(), pkg.Name, pkg.Version, digest)
		options = append(options, assetserver.WithMetrics(metrics))
	}

	servers := []*service.HTTPServer{
		service.NewHTTPServer(service.HTTPServerConfig{
			Name:            "assets",
			Address:         cfg.ListenAddress(),
			Handler:         assetserver.New(store, options...),
			ShutdownTimeout: cfg.ShutdownTimeout,
			Logger:          logger,
		}),
	}
	if metrics != nil {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", metrics.Handler())
		servers = append(servers, service.NewHTTPServer(service.HTTPServerConfig{
			Name:            "metrics",
			Address:         cfg.MetricsAddress,
			Handler:         mux,
			ShutdownTimeout: cfg.ShutdownTimeout,
			Logger:          logger,
		}))
	}
	return servers, nil
}
