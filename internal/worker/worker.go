package worker

import (
	"context"
)

// Worker is the interface every background job implements.
type Worker interface {
	// Start runs the worker until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop signals the worker to stop.
	Stop() error

	// Name returns the worker's name.
	Name() string
}
