// Package redis stores offline queues in Redis.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which pings the server with retries using the supplied
//     configuration.
//   - Storage, a queue.Storage keeping each queue as one string key
//     <prefix><name>, optionally with a TTL.
//   - Healthcheck, for readiness probes and the CLI ping command.
//
// Configuration is described by the Config struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	storage := redis.NewStorage(client, redis.WithConfig(cfg))
//	s, err := queue.New(ctx, "uploads", storage, executor, monitor)
//
// A missing key loads as (nil, nil), which the scheduler treats as an empty
// queue.
//
// # Errors
//
// Sentinel errors (e.g. ErrRedisNotReady) wrap the underlying go-redis errors
// using errors.Join.
package redis
