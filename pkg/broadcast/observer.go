package broadcast

// Observer receives the signals emitted by a Channel. Implementations must
// be safe for the channel to call from whichever goroutine triggered the
// emission; the channel never calls an observer concurrently with itself.
type Observer[T any] interface {
	// OnNext delivers the next published value.
	OnNext(value T)

	// OnError delivers an error forwarded through the channel.
	// The channel itself never originates errors.
	OnError(err error)

	// OnComplete signals that the channel has been closed and no further
	// values will be delivered.
	OnComplete()
}

// ObserverFunc adapts a plain function to the Observer interface for
// consumers that only care about values. Error and completion signals
// are discarded.
type ObserverFunc[T any] func(value T)

// OnNext implements Observer.
func (f ObserverFunc[T]) OnNext(value T) { f(value) }

// OnError implements Observer. It is a no-op.
func (f ObserverFunc[T]) OnError(err error) {}

// OnComplete implements Observer. It is a no-op.
func (f ObserverFunc[T]) OnComplete() {}
