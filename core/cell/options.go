package cell

import "log/slog"

// Option configures a Cell.
type Option[T any] func(*Cell[T])

// WithLogger configures structured logging for cell lifecycle events.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Cell[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEqual overrides the equality comparison used by PostIfChanged.
// The default is reflect.DeepEqual, which treats a nil value as equal only
// to another nil value. Supplying a cheaper comparison avoids reflection
// on hot paths:
//
//	c := cell.New(cell.WithEqual(func(a, b int) bool { return a == b }))
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(c *Cell[T]) {
		if equal != nil {
			c.equal = equal
		}
	}
}
