package broadcast

import "errors"

var (
	// ErrChannelClosed is returned when publishing to or subscribing on a
	// channel that has already been closed.
	ErrChannelClosed = errors.New("broadcast channel is closed")

	// ErrNilObserver is returned when Subscribe is called with a nil observer.
	ErrNilObserver = errors.New("observer cannot be nil")
)
