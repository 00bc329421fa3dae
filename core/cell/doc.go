// Package cell provides a thread-safe observable single-value container:
// one value of generic type T that can be read, conditionally updated, and
// whose updates are broadcast to a dynamic set of subscribers in strict
// order, exactly once per effective change.
//
// # Features
//
//   - Shared-lock reads, exclusive-lock writes over one value slot
//   - One-time lazy initialization with exactly-one-winner semantics (Init)
//   - Unconditional (Post) and equality-gated (PostIfChanged) updates
//   - Atomic read-modify-write (Update)
//   - Subscription with atomic registration-and-replay of the current value
//   - Idempotent disposal that clears the value and completes subscribers
//
// # Basic Usage
//
//	c := cell.New[string]()
//	defer c.Close()
//
//	sub, err := c.SubscribeFunc(func(v string) {
//		fmt.Println("value is now", v)
//	})
//	if err != nil {
//		return err
//	}
//	defer sub.Close()
//
//	c.Post("hello")               // notifies: "hello"
//	c.PostIfChanged("hello")      // no-op, value unchanged
//	c.PostIfChanged("world")      // notifies: "world"
//
// A cell constructed with NewWithValue replays its value to every new
// subscriber immediately. A cell constructed empty withholds replay until
// the first Init or Post, so subscribers never mistake the zero value for
// real data.
//
// # Initialization
//
// Init sets the value only once, for lazy setup shared between concurrent
// callers:
//
//	won, err := c.Init(loadConfig())
//	if err != nil {
//		return err
//	}
//	if !won {
//		// another goroutine initialized first; its value stands
//	}
//
// # Notification Semantics
//
// Every successful write produces exactly one notification, delivered to
// the subscribers registered at the moment the write lock was held.
// Notifications arrive in write order. Delivery is synchronous and happens
// while the cell's lock is held: observers must not call back into the cell
// from their callbacks, and slow observers delay subsequent writers.
// Subscribers needing decoupling should hand values to their own goroutine.
//
// # Disposal
//
// Close is idempotent. After the first call the held value is released,
// subscribers receive a completion signal, and every operation on the cell,
// including the equality check inside PostIfChanged, fails with ErrDisposed.
// Callers must be able to distinguish "value unchanged, no notification"
// (a false return with nil error) from "cell is gone" (ErrDisposed).
//
// # Thread Safety
//
// All operations are safe for concurrent use across multiple goroutines.
// The value and the initialized flag form one atomic unit guarded by a
// single reader/writer lock owned exclusively by the cell.
package cell
