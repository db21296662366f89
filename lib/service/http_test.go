// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
		fmt.Fprint(writer, body)
	})
}

func waitReady(t *testing.T, server *HTTPServer) {
	t.Helper()
	// t.Context() is cancelled when the test deadline passes, so no
	// wall-clock timeout is needed.
	select {
	case <-server.Ready():
	case <-t.Context().Done():
		t.Fatalf("%s server did not become ready before test deadline", server.Name())
	}
}

func get(t *testing.T, server *HTTPServer, path string) string {
	t.Helper()
	response, err := http.Get("http://" + server.Addr().String() + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Errorf("GET %s status = %d, want 200", path, response.StatusCode)
	}
	body, _ := io.ReadAll(response.Body)
	return string(body)
}

func TestHTTPServerLifecycle(t *testing.T) {
	server := NewHTTPServer(HTTPServerConfig{
		Address:         "127.0.0.1:0", // OS-assigned port
		Handler:         okHandler("ok"),
		ShutdownTimeout: 2 * time.Second,
		Logger:          discardLogger(),
	})
	if server.Name() != "http" {
		t.Errorf("Name() = %q, want default %q", server.Name(), "http")
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()

	waitReady(t, server)
	if body := get(t, server, "/test"); body != "ok" {
		t.Errorf("GET /test body = %q, want %q", body, "ok")
	}

	cancel()

	select {
	case err := <-serveDone:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-t.Context().Done():
		t.Fatal("server did not shut down before test deadline")
	}
}

func TestHTTPServerListenFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer occupied.Close()

	server := NewHTTPServer(HTTPServerConfig{
		Name:    "assets",
		Address: occupied.Addr().String(),
		Handler: okHandler("ok"),
		Logger:  discardLogger(),
	})
	if err := server.Serve(t.Context()); err == nil {
		t.Fatal("Serve() on an occupied address succeeded")
	}
}

func TestRunServesAllAndStopsTogether(t *testing.T) {
	assets := NewHTTPServer(HTTPServerConfig{
		Name:    "assets",
		Address: "127.0.0.1:0",
		Handler: okHandler("assets"),
		Logger:  discardLogger(),
	})
	metrics := NewHTTPServer(HTTPServerConfig{
		Name:    "metrics",
		Address: "127.0.0.1:0",
		Handler: okHandler("metrics"),
		Logger:  discardLogger(),
	})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- Run(ctx, assets, metrics)
	}()

	waitReady(t, assets)
	waitReady(t, metrics)
	if body := get(t, assets, "/"); body != "assets" {
		t.Errorf("assets body = %q", body)
	}
	if body := get(t, metrics, "/"); body != "metrics" {
		t.Errorf("metrics body = %q", body)
	}

	cancel()
	select {
	case err := <-runDone:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-t.Context().Done():
		t.Fatal("Run did not return before test deadline")
	}
}

func TestRunStopsOthersOnFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer occupied.Close()

	healthy := NewHTTPServer(HTTPServerConfig{
		Name:    "assets",
		Address: "127.0.0.1:0",
		Handler: okHandler("ok"),
		Logger:  discardLogger(),
	})
	broken := NewHTTPServer(HTTPServerConfig{
		Name:    "metrics",
		Address: occupied.Addr().String(),
		Handler: okHandler("ok"),
		Logger:  discardLogger(),
	})

	runDone := make(chan error, 1)
	go func() {
		runDone <- Run(t.Context(), healthy, broken)
	}()

	select {
	case err := <-runDone:
		if err == nil {
			t.Error("Run() = nil, want the listen failure")
		}
	case <-t.Context().Done():
		t.Fatal("Run did not return after a server failed")
	}
}

func TestHTTPServerPanicsOnMissingConfig(t *testing.T) {
	logger := discardLogger()
	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	tests := []struct {
		name   string
		config HTTPServerConfig
	}{
		{
			name:   "missing_address",
			config: HTTPServerConfig{Handler: handler, Logger: logger},
		},
		{
			name:   "missing_handler",
			config: HTTPServerConfig{Address: ":0", Logger: logger},
		},
		{
			name:   "missing_logger",
			config: HTTPServerConfig{Address: ":0", Handler: handler},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("NewHTTPServer did not panic")
				}
			}()
			NewHTTPServer(tt.config)
		})
	}
}
