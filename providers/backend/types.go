// Package backend persists collected benchmark results under a named run,
// on the local filesystem or in a remote store.
package backend

import (
	"context"

	"bench-harness/types"
)

// Provider stores one results document per run. PreCmd validates
// credentials and prepares storage before any other call.
type Provider interface {
	PreCmd(ctx context.Context, run string) error
	Read(ctx context.Context, run string) (*types.Results, error)
	Write(ctx context.Context, run string, results *types.Results) error
	Delete(ctx context.Context, run string) error
}
