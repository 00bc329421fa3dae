package cell

import "errors"

var (
	// ErrDisposed is returned by every value-access operation (read, write,
	// equality check, subscribe) attempted after the cell has been closed.
	// A disposed cell is permanently gone; callers must not retry.
	ErrDisposed = errors.New("cell has been disposed")
)
