// Package redis provides Redis client bootstrapping and a pub/sub backend
// for replicating observable cells across processes.
//
// It wraps the go-redis client with URL validation, retry logic, and
// connection verification, and builds on that client to mirror a
// cell.Cell[T] over a Redis pub/sub channel so that replicas in separate
// processes converge on the same value.
//
// # Connection
//
// All connection settings live in the Config struct with environment
// variable mapping:
//
//	cfg, err := redis.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Connect validates the redis:// or rediss:// URL, retries transient
// failures with a fixed interval, and verifies connectivity with a ping
// before returning. Healthcheck returns a probe function for readiness
// endpoints.
//
// # Mirroring
//
//	c := cell.New[Settings]()
//	defer c.Close()
//
//	mirror, err := redis.NewMirror(client, c, cfg.MirrorChannel)
//	if err != nil {
//		log.Fatal(err)
//	}
//	go mirror.Run(ctx)
//
// Every local change to the cell is published as a JSON envelope tagged
// with the mirror's origin id; messages from other origins are applied with
// PostIfChanged. Equality gating plus origin tagging keeps replicas from
// ping-ponging the same value back and forth.
//
// Mirroring is last-writer-wins with no ordering guarantee between
// concurrent writers in different processes; it suits configuration and
// status fan-out, not counters or CRDT-style merging.
//
// # Error Handling
//
// The package defines stable error types checkable with errors.Is():
//
//   - ErrEmptyConnectionURL, ErrFailedToParseConnString: invalid configuration
//   - ErrNotReady: Redis did not answer a ping within the retry budget
//   - ErrHealthcheckFailed: probe ping failed
//   - ErrNilClient, ErrNilCell, ErrEmptyMirrorChannel: invalid mirror setup
package redis
