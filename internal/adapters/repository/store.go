// Package repository holds the process-wide dataset snapshot.
package repository

import (
	"context"

	"github.com/okian/combine/internal/adapters/dataset"
)

// Store publishes the loaded dataset once and serves it read-only.
type Store interface {
	// Publish builds and publishes the snapshot. It may be called once;
	// later calls return ErrAlreadyLoaded.
	Publish(ctx context.Context, ds dataset.Dataset) (*Snapshot, error)

	// Snapshot returns the published snapshot or ErrNotLoaded.
	Snapshot(ctx context.Context) (*Snapshot, error)
}
