// Package httpserver exposes the state of running offline queues over HTTP.
//
// NewHandler builds the routes:
//
//	GET /metrics        Prometheus exposition of the given gatherer
//	GET /healthz        liveness, always 200 "ALIVE"
//	GET /readyz         200 "READY" when every readiness check passes,
//	                    same as /healthz when none are registered
//	GET /queues/{name}  JSON snapshot of a registered queue
//
// Server runs a handler until its context is cancelled and shuts down
// gracefully.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	h := httpserver.NewHandler(
//		httpserver.WithGatherer(reg),
//		httpserver.WithQueue(scheduler),
//		httpserver.WithReadiness(backendPing),
//	)
//	err := srv.Run(ctx, h)
package httpserver
