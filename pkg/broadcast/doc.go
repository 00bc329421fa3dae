// Package broadcast provides a generic in-memory multicast channel with
// ordered, exactly-once delivery to a dynamic set of observers.
//
// Unlike buffered fan-out systems that drop messages for slow consumers,
// this package delivers synchronously: every active observer sees every
// emission, in registration order, in the exact sequence the emissions
// occurred. That makes it suitable as the notification backbone of state
// containers where a missed update means a stale consumer.
//
// # Architecture
//
// The package defines three types:
//   - Channel: the multicast primitive; owns the observer registry
//   - Observer: the consumer contract (next, error, completed signals)
//   - Subscription: a handle for detaching one observer
//
// # Usage
//
// Basic broadcasting:
//
//	ch := broadcast.New[string]()
//	defer ch.Close()
//
//	sub, err := ch.Subscribe(broadcast.ObserverFunc[string](func(v string) {
//		fmt.Println("received:", v)
//	}))
//	if err != nil {
//		return err
//	}
//	defer sub.Close()
//
//	ch.Publish("hello")
//	ch.Publish("world")
//
// # Delivery Semantics
//
// Emissions (Publish, Error, Close) are serialized by an internal lock, so
// all observers agree on the order of signals. Observer callbacks run on the
// goroutine performing the emission; a slow observer delays every subsequent
// emission. Consumers that need buffering should hand values off to their
// own goroutine inside the callback.
//
// Observers registered during an in-flight emission do not receive that
// emission; they receive all subsequent ones.
//
// # Lifecycle
//
// Closing the channel delivers OnComplete to every remaining observer
// exactly once and permanently rejects further publishes and subscriptions
// with ErrChannelClosed. Subscribing a nil observer fails with
// ErrNilObserver. Closing a subscription is idempotent and safe from within
// an observer callback.
//
// # Thread Safety
//
// All operations are safe for concurrent use across multiple goroutines.
package broadcast
