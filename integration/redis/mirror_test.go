package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/observable/core/cell"
)

// deadClient returns a client pointed at a port nothing listens on, so
// every command fails fast without a server.
func deadClient(t *testing.T) *goredis.Client {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// logSink is a slog handler capturing record messages for assertions.
type logSink struct {
	mu   sync.Mutex
	msgs []string
}

func (s *logSink) Enabled(context.Context, slog.Level) bool { return true }

func (s *logSink) Handle(_ context.Context, rec slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, rec.Message)
	return nil
}

func (s *logSink) WithAttrs([]slog.Attr) slog.Handler { return s }

func (s *logSink) WithGroup(string) slog.Handler { return s }

func (s *logSink) contains(msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.msgs {
		if m == msg {
			return true
		}
	}
	return false
}

func remoteEnvelope(t *testing.T, origin string, value int) string {
	t.Helper()
	payload, err := json.Marshal(envelope[int]{Origin: origin, Value: value})
	require.NoError(t, err)
	return string(payload)
}

func TestMirror_Apply(t *testing.T) {
	t.Parallel()

	t.Run("applies remote update to the cell", func(t *testing.T) {
		t.Parallel()

		c := cell.New[int]()
		defer c.Close()

		m, err := NewMirror(deadClient(t), c, "chan")
		require.NoError(t, err)

		require.NoError(t, m.apply(remoteEnvelope(t, uuid.NewString(), 7)))

		v, err := c.Read()
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("skips own origin", func(t *testing.T) {
		t.Parallel()

		c := cell.New[int]()
		defer c.Close()

		m, err := NewMirror(deadClient(t), c, "chan")
		require.NoError(t, err)

		require.NoError(t, m.apply(remoteEnvelope(t, m.origin, 9)))
		assert.False(t, c.Initialized())
	})

	t.Run("equal value converges without renotifying", func(t *testing.T) {
		t.Parallel()

		c := cell.NewWithValue(7)
		defer c.Close()

		notifications := 0
		_, err := c.SubscribeFunc(func(int) { notifications++ })
		require.NoError(t, err)

		m, err := NewMirror(deadClient(t), c, "chan")
		require.NoError(t, err)

		require.NoError(t, m.apply(remoteEnvelope(t, uuid.NewString(), 7)))

		// Only the subscription replay, no change notification.
		assert.Equal(t, 1, notifications)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		t.Parallel()

		c := cell.New[int]()
		defer c.Close()

		m, err := NewMirror(deadClient(t), c, "chan")
		require.NoError(t, err)

		require.Error(t, m.apply("{not json"))
	})

	t.Run("surfaces disposed cell", func(t *testing.T) {
		t.Parallel()

		c := cell.New[int]()
		m, err := NewMirror(deadClient(t), c, "chan")
		require.NoError(t, err)

		require.NoError(t, c.Close())

		err = m.apply(remoteEnvelope(t, uuid.NewString(), 7))
		require.ErrorIs(t, err, cell.ErrDisposed)
	})
}

func TestMirror_Publish(t *testing.T) {
	t.Parallel()

	t.Run("attempts delivery for every local change", func(t *testing.T) {
		t.Parallel()

		c := cell.New[int]()
		defer c.Close()

		sink := &logSink{}
		m, err := NewMirror(deadClient(t), c, "chan", WithMirrorLogger[int](slog.New(sink)))
		require.NoError(t, err)

		m.publish(context.Background(), 42)

		// The dead client fails the command, which is exactly the evidence
		// that delivery was attempted.
		assert.True(t, sink.contains("publishing cell update"))
	})

	t.Run("not suppressed while a remote apply waits on the cell", func(t *testing.T) {
		t.Parallel()

		c := cell.New[int]()
		defer c.Close()

		gate := make(chan struct{})
		entered := make(chan struct{})
		var once sync.Once
		_, err := c.SubscribeFunc(func(int) {
			once.Do(func() { close(entered) })
			<-gate
		})
		require.NoError(t, err)

		sink := &logSink{}
		m, err := NewMirror(deadClient(t), c, "chan", WithMirrorLogger[int](slog.New(sink)))
		require.NoError(t, err)

		var wg sync.WaitGroup

		// Local writer: holds the cell's write lock while its notification
		// blocks on the gate.
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Post(42)
			assert.NoError(t, err)
		}()

		select {
		case <-entered:
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for local post to enter notification")
		}

		// Remote apply: parks inside PostIfChanged waiting for that lock.
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.apply(remoteEnvelope(t, uuid.NewString(), 7)))
		}()

		// Give the apply goroutine time to reach the lock.
		time.Sleep(50 * time.Millisecond)

		// The local change must still be relayed while the apply is in flight.
		m.publish(context.Background(), 42)
		assert.True(t, sink.contains("publishing cell update"))

		close(gate)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for writers to finish")
		}

		// The parked apply wins the lock after the local post completes.
		v, err := c.Read()
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})
}
