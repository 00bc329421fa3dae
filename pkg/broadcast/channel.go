package broadcast

import (
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Channel is an in-memory multicast primitive that delivers values to all
// registered observers synchronously, in registration order, exactly once
// per emission. Emissions are serialized, so every observer sees the same
// sequence of values in the same relative order.
//
// Channel is thread-safe. Observer callbacks run on the goroutine that
// triggered the emission; a slow observer delays subsequent emissions.
//
// Example:
//
//	ch := broadcast.New[int]()
//	defer ch.Close()
//
//	sub, err := ch.Subscribe(broadcast.ObserverFunc[int](func(v int) {
//	    fmt.Println("got", v)
//	}))
//	if err != nil {
//	    return err
//	}
//	defer sub.Close()
//
//	ch.Publish(42)
type Channel[T any] struct {
	mu      sync.RWMutex // guards entries and closed
	emit    sync.Mutex   // serializes emissions to preserve ordering
	entries []*entry[T]
	closed  bool
	logger  *slog.Logger
}

type entry[T any] struct {
	obs Observer[T]
	sub *Subscription
}

// ChannelOption configures a Channel.
type ChannelOption[T any] func(*Channel[T])

// WithLogger configures structured logging for the channel.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger[T any](logger *slog.Logger) ChannelOption[T] {
	return func(ch *Channel[T]) {
		if logger != nil {
			ch.logger = logger
		}
	}
}

// New creates a new broadcast channel.
func New[T any](opts ...ChannelOption[T]) *Channel[T] {
	ch := &Channel[T]{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(ch)
	}

	return ch
}

// Subscribe registers an observer and returns its subscription handle.
// It returns ErrNilObserver for a nil observer and ErrChannelClosed if the
// channel has been closed; a closed channel refuses new registrations
// rather than silently accepting them.
func (ch *Channel[T]) Subscribe(obs Observer[T]) (*Subscription, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return nil, ErrChannelClosed
	}

	sub := &Subscription{id: uuid.New(), detach: ch.remove}
	sub.active.Store(true)
	ch.entries = append(ch.entries, &entry[T]{obs: obs, sub: sub})

	ch.logger.Debug("observer subscribed", slog.String("subscription_id", sub.id.String()))
	return sub, nil
}

// Publish delivers value to every active observer in registration order.
// It returns ErrChannelClosed if the channel has been closed.
func (ch *Channel[T]) Publish(value T) error {
	ch.emit.Lock()
	defer ch.emit.Unlock()

	snapshot, err := ch.snapshot()
	if err != nil {
		return err
	}

	for _, e := range snapshot {
		if e.sub.Active() {
			e.obs.OnNext(value)
		}
	}
	return nil
}

// Error forwards err to every active observer. The channel never originates
// errors on its own; this is an explicit pass-through for producers that
// need to surface a failure to all consumers.
func (ch *Channel[T]) Error(err error) error {
	ch.emit.Lock()
	defer ch.emit.Unlock()

	snapshot, serr := ch.snapshot()
	if serr != nil {
		return serr
	}

	for _, e := range snapshot {
		if e.sub.Active() {
			e.obs.OnError(err)
		}
	}
	return nil
}

// Close shuts the channel down, delivering a completion signal to every
// remaining observer exactly once. Subsequent calls return ErrChannelClosed,
// and further Publish, Error, and Subscribe calls are rejected.
func (ch *Channel[T]) Close() error {
	ch.emit.Lock()
	defer ch.emit.Unlock()

	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return ErrChannelClosed
	}
	ch.closed = true
	snapshot := ch.entries
	ch.entries = nil
	ch.mu.Unlock()

	for _, e := range snapshot {
		if e.sub.active.CompareAndSwap(true, false) {
			e.obs.OnComplete()
		}
	}

	ch.logger.Debug("broadcast channel closed", slog.Int("subscribers", len(snapshot)))
	return nil
}

// Len returns the number of active subscriptions.
func (ch *Channel[T]) Len() int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	n := 0
	for _, e := range ch.entries {
		if e.sub.Active() {
			n++
		}
	}
	return n
}

// snapshot copies the registry so that delivery happens without holding the
// registry lock. Observers may therefore unsubscribe from within callbacks
// without deadlocking.
func (ch *Channel[T]) snapshot() ([]*entry[T], error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if ch.closed {
		return nil, ErrChannelClosed
	}
	return slices.Clone(ch.entries), nil
}

func (ch *Channel[T]) remove(id uuid.UUID) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.entries = slices.DeleteFunc(ch.entries, func(e *entry[T]) bool {
		return e.sub.id == id
	})
}
