// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run serves every server until ctx is cancelled or one of them
// fails. A failure cancels the rest; Run returns after all servers
// have stopped, with the first error.
func Run(ctx context.Context, servers ...*HTTPServer) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, server := range servers {
		group.Go(func() error {
			return server.Serve(groupCtx)
		})
	}
	return group.Wait()
}
