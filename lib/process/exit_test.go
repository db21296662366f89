// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain", errors.New("boom"), 1},
		{"usage", Usage("unexpected argument %q", "x"), ExitUsage},
		{"wrapped_usage", fmt.Errorf("ars-pack: %w", Usage("missing manifest")), ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	var buffer bytes.Buffer
	report(&buffer, Usage("missing manifest"))
	if got, want := buffer.String(), "error: missing manifest\n"; got != want {
		t.Errorf("report wrote %q, want %q", got, want)
	}
}
