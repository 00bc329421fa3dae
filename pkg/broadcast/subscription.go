package broadcast

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription represents a single observer registration on a channel.
// Closing it detaches the observer from future emissions; values already
// delivered are unaffected.
type Subscription struct {
	id     uuid.UUID
	active atomic.Bool
	detach func(id uuid.UUID)
}

// ID returns the unique identifier assigned to this subscription.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Active reports whether the subscription still receives emissions.
func (s *Subscription) Active() bool {
	return s.active.Load()
}

// Close detaches the observer from the channel. It is idempotent and safe
// to call from within an observer callback: delivery stops as soon as the
// active flag flips, and the registry entry is removed under the channel's
// registry lock, which is never held during delivery.
func (s *Subscription) Close() error {
	if !s.active.CompareAndSwap(true, false) {
		return nil
	}
	s.detach(s.id)
	return nil
}
