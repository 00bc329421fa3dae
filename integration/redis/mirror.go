package redis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/observable/core/cell"
)

// envelope is the wire format for mirrored updates. Origin identifies the
// mirror instance that produced the message so it can skip its own echoes.
type envelope[T any] struct {
	Origin string `json:"origin"`
	Value  T      `json:"value"`
}

// Mirror replicates a cell across processes over Redis pub/sub. Every local
// change is published as JSON to a shared channel; updates arriving from
// other instances are applied with PostIfChanged, so replicas converge
// without notification loops.
//
// The value type T must round-trip through encoding/json.
//
// Example:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	mirror, err := redis.NewMirror(client, c, cfg.MirrorChannel)
//	if err != nil {
//	    return err
//	}
//	go mirror.Run(ctx)
type Mirror[T any] struct {
	cell    *cell.Cell[T]
	client  *redis.Client
	channel string
	origin  string
	logger  *slog.Logger
}

// MirrorOption configures a Mirror.
type MirrorOption[T any] func(*Mirror[T])

// WithMirrorLogger configures structured logging for the mirror.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithMirrorLogger[T any](logger *slog.Logger) MirrorOption[T] {
	return func(m *Mirror[T]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMirror creates a mirror binding c to the named pub/sub channel on
// client. The mirror is inert until Run is called.
func NewMirror[T any](client *redis.Client, c *cell.Cell[T], channel string, opts ...MirrorOption[T]) (*Mirror[T], error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if c == nil {
		return nil, ErrNilCell
	}
	if channel == "" {
		return nil, ErrEmptyMirrorChannel
	}

	m := &Mirror[T]{
		cell:    c,
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Run subscribes to both the cell and the Redis channel and relays updates
// in both directions until ctx is cancelled or the cell is disposed. If the
// cell is already initialized, its current value is announced on startup.
func (m *Mirror[T]) Run(ctx context.Context) error {
	sub, err := m.cell.SubscribeFunc(func(value T) {
		m.publish(ctx, value)
	})
	if err != nil {
		return err
	}
	defer sub.Close()

	pubsub := m.client.Subscribe(ctx, m.channel)
	defer pubsub.Close()

	// Confirm the subscription before consuming, so a broken connection
	// surfaces here instead of as a silently empty channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	m.logger.Info("cell mirror running", slog.String("channel", m.channel), slog.String("origin", m.origin))

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := m.apply(msg.Payload); err != nil {
				if errors.Is(err, cell.ErrDisposed) {
					return err
				}
				m.logger.Error("applying mirrored update", slog.Any("error", err))
			}
		}
	}
}

// publish relays a local cell change to the Redis channel. Every change is
// relayed, including ones the mirror itself applied from remote messages:
// peers discard re-published values through the origin filter and the
// equality gate, so echoes terminate after one hop.
func (m *Mirror[T]) publish(ctx context.Context, value T) {
	payload, err := json.Marshal(envelope[T]{Origin: m.origin, Value: value})
	if err != nil {
		m.logger.Error("encoding cell update", slog.Any("error", err))
		return
	}

	if err := m.client.Publish(ctx, m.channel, payload).Err(); err != nil {
		m.logger.Error("publishing cell update", slog.Any("error", err))
		return
	}

	m.logger.Debug("published cell update", slog.String("channel", m.channel))
}

// apply decodes a remote message and applies it to the local cell.
// Messages originating from this mirror instance are ignored.
func (m *Mirror[T]) apply(payload string) error {
	var e envelope[T]
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return err
	}

	if e.Origin == m.origin {
		return nil
	}

	// An applied change triggers the local subscription and is re-published
	// under this mirror's origin; remote PostIfChanged then sees an equal
	// value and stops the loop.
	changed, err := m.cell.PostIfChanged(e.Value)
	if err != nil {
		return err
	}
	if changed {
		m.logger.Debug("applied mirrored update", slog.String("origin", e.Origin))
	}
	return nil
}
