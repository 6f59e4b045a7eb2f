package timeline

import "context"

// CustomerDirectory checks that a customer exists before events are attached to it.
type CustomerDirectory interface {
	Exists(ctx context.Context, customerID string) (bool, error)
}
