package cell

import (
	"io"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/observable/pkg/broadcast"
)

// Cell is a thread-safe observable single-value container. It holds one
// value of type T, supports conditional updates, and broadcasts every
// effective change to its subscribers in strict write order, exactly once
// per change.
//
// The cell owns its lock and its broadcast channel exclusively; neither is
// ever exposed to callers.
//
// Example:
//
//	c := cell.New[int]()
//	defer c.Close()
//
//	sub, err := c.SubscribeFunc(func(v int) {
//	    fmt.Println("changed to", v)
//	})
//	if err != nil {
//	    return err
//	}
//	defer sub.Close()
//
//	c.Post(42)
type Cell[T any] struct {
	mu          sync.RWMutex
	value       T
	initialized bool
	disposed    atomic.Bool
	channel     *broadcast.Channel[T]
	equal       func(a, b T) bool
	logger      *slog.Logger
}

// New creates an empty, uninitialized cell. Subscribers registered before
// the first Init or Post receive nothing until a value is set; an
// uninitialized cell never replays a default value as if it were real data.
func New[T any](opts ...Option[T]) *Cell[T] {
	c := &Cell[T]{
		channel: broadcast.New[T](),
		equal:   defaultEqual[T],
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewWithValue creates a cell already holding value, with the initialized
// flag set. New subscribers immediately receive value as their first
// notification.
func NewWithValue[T any](value T, opts ...Option[T]) *Cell[T] {
	c := New(opts...)
	c.value = value
	c.initialized = true
	return c
}

// Read returns the current value under a shared lock. Reading an
// uninitialized cell returns the zero value of T; reading a disposed cell
// fails with ErrDisposed.
func (c *Cell[T]) Read() (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.disposed.Load() {
		var zero T
		return zero, ErrDisposed
	}
	return c.value, nil
}

// MustRead returns the current value, panicking if the cell has been
// disposed. It is the explicit form of "use the cell as the value itself"
// for call sites that have tied the cell's lifetime to their own.
func (c *Cell[T]) MustRead() T {
	v, err := c.Read()
	if err != nil {
		panic(err)
	}
	return v
}

// Init sets the value only if the cell has never been initialized, for lazy
// one-time setup. It reports true iff this call performed the
// initialization; false means the cell already held a value, which is left
// untouched and not re-notified. Under concurrent callers exactly one wins.
func (c *Cell[T]) Init(value T) (bool, error) {
	// Double-checked: the shared-lock fast path keeps contended losers from
	// ever queueing on the exclusive lock.
	c.mu.RLock()
	if c.disposed.Load() {
		c.mu.RUnlock()
		return false, ErrDisposed
	}
	if c.initialized {
		c.mu.RUnlock()
		return false, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed.Load() {
		return false, ErrDisposed
	}
	if c.initialized {
		return false, nil
	}

	c.value = value
	c.initialized = true
	c.notify(value)
	return true, nil
}

// Post unconditionally sets the value and notifies all subscribers, even if
// the new value equals the current one. It reports true on success and
// fails with ErrDisposed on a disposed cell.
func (c *Cell[T]) Post(value T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed.Load() {
		return false, ErrDisposed
	}

	c.value = value
	c.initialized = true
	c.notify(value)
	return true, nil
}

// PostIfChanged sets the value and notifies only when the cell is
// uninitialized or the new value differs from the current one under the
// cell's equality comparison. It reports whether a write (and thus a
// notification) occurred. The equality check counts as a value access and
// fails with ErrDisposed on a disposed cell.
func (c *Cell[T]) PostIfChanged(value T) (bool, error) {
	c.mu.RLock()
	if c.disposed.Load() {
		c.mu.RUnlock()
		return false, ErrDisposed
	}
	if c.initialized && c.equal(c.value, value) {
		c.mu.RUnlock()
		return false, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: another writer may have raced in between lock scopes.
	if c.disposed.Load() {
		return false, ErrDisposed
	}
	if c.initialized && c.equal(c.value, value) {
		return false, nil
	}

	c.value = value
	c.initialized = true
	c.notify(value)
	return true, nil
}

// Update atomically applies fn to the current value, stores the result, and
// notifies all subscribers. On an uninitialized cell fn receives the zero
// value of T. It returns the stored result.
func (c *Cell[T]) Update(fn func(T) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed.Load() {
		var zero T
		return zero, ErrDisposed
	}

	next := fn(c.value)
	c.value = next
	c.initialized = true
	c.notify(next)
	return next, nil
}

// Subscribe registers obs with the cell's broadcast channel and, if the
// cell is initialized, immediately replays the current value as the
// observer's first notification. Registration and replay happen atomically
// with respect to concurrent writes: no update can be missed or
// double-delivered in between.
//
// It fails with ErrDisposed on a disposed cell and with
// broadcast.ErrNilObserver for a nil observer. Observers must not call back
// into the cell synchronously; notifications are delivered while the cell's
// lock is held.
func (c *Cell[T]) Subscribe(obs broadcast.Observer[T]) (*broadcast.Subscription, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.disposed.Load() {
		return nil, ErrDisposed
	}

	sub, err := c.channel.Subscribe(obs)
	if err != nil {
		return nil, err
	}

	if c.initialized {
		obs.OnNext(c.value)
	}
	return sub, nil
}

// SubscribeFunc is a convenience wrapper around Subscribe for consumers
// that only care about values.
func (c *Cell[T]) SubscribeFunc(fn func(T)) (*broadcast.Subscription, error) {
	if fn == nil {
		return nil, broadcast.ErrNilObserver
	}
	return c.Subscribe(broadcast.ObserverFunc[T](fn))
}

// Initialized reports whether the cell has ever held a value.
func (c *Cell[T]) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Disposed reports whether the cell has been closed.
func (c *Cell[T]) Disposed() bool {
	return c.disposed.Load()
}

// Subscribers returns the number of active subscriptions.
func (c *Cell[T]) Subscribers() int {
	return c.channel.Len()
}

// Close disposes the cell: the held value is cleared under the exclusive
// lock to release any references, every remaining subscriber receives a
// completion signal, and all further operations fail with ErrDisposed.
// Close is idempotent; only the first call performs teardown.
func (c *Cell[T]) Close() error {
	if !c.disposed.CompareAndSwap(false, true) {
		return nil
	}

	// New callers fail fast on the flag; in-flight operations that already
	// hold the lock drain before the value is cleared.
	c.mu.Lock()
	var zero T
	c.value = zero
	c.mu.Unlock()

	if err := c.channel.Close(); err != nil {
		c.logger.Error("closing broadcast channel", slog.Any("error", err))
		return err
	}

	c.logger.Debug("cell disposed")
	return nil
}

// notify emits one notification for a completed write. Callers hold the
// exclusive lock, which is what guarantees the per-write ordering of
// deliveries.
func (c *Cell[T]) notify(value T) {
	if err := c.channel.Publish(value); err != nil {
		c.logger.Error("publishing cell update", slog.Any("error", err))
	}
}

func defaultEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}
