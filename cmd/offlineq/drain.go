package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/offlineq/pkg/checkpoint"
	"github.com/dmitrymomot/offlineq/pkg/config"
	"github.com/dmitrymomot/offlineq/pkg/connectivity"
	"github.com/dmitrymomot/offlineq/pkg/httpserver"
	"github.com/dmitrymomot/offlineq/pkg/kafka"
	"github.com/dmitrymomot/offlineq/pkg/logger"
	"github.com/dmitrymomot/offlineq/pkg/queue"
	"github.com/dmitrymomot/offlineq/pkg/webhook"
)

const drainPollInterval = 500 * time.Millisecond

const (
	sinkKafka   = "kafka"
	sinkWebhook = "webhook"
)

var ErrUnknownSink = errors.New("unknown sink")

// drainOptions carries what a drain run needs besides the backend.
type drainOptions struct {
	exec     queue.Executor
	targets  []string
	queue    queue.Config
	autosave checkpoint.Config
	http     httpserver.Config
	follow   bool
}

func newDrainCmd(a *app) *cobra.Command {
	var (
		follow   bool
		sink     string
		httpAddr string
	)

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Deliver persisted operations to Kafka or a webhook",
		Long: `Load the queue, deliver every operation to the selected sink and save what
is left.

The sink's hosts double as connectivity probe targets: nothing is dispatched
while none of them can be dialed. Without --follow the command returns once
every remaining operation has failed permanently or the queue is empty.

With --http-addr the queue state, Prometheus metrics and health probes are
served while the command runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts := drainOptions{follow: follow}
			if err := config.Load(&opts.queue); err != nil {
				return err
			}
			if err := config.Load(&opts.autosave); err != nil {
				return err
			}
			if err := config.Load(&opts.http); err != nil {
				return err
			}
			// The server only runs when asked for on the command line.
			opts.http.Addr = httpAddr

			exec, targets, err := a.newSink(sink)
			if err != nil {
				return err
			}
			defer func() { _ = exec.Close() }()
			opts.exec, opts.targets = exec, targets

			return a.withBackend(ctx, func(b *Backend) error {
				return a.drain(ctx, cmd, b, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", false, "keep running until interrupted")
	cmd.Flags().StringVar(&sink, "sink", sinkKafka, "delivery target (kafka, webhook)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "serve metrics and queue state on this address")
	return cmd
}

// deliverer is an executor that owns resources.
type deliverer interface {
	queue.Executor
	Close() error
}

type webhookSink struct{ *webhook.Executor }

func (webhookSink) Close() error { return nil }

// newSink builds the executor for kind together with the host:port
// addresses used to probe connectivity.
func (a *app) newSink(kind string) (deliverer, []string, error) {
	switch kind {
	case sinkKafka:
		var cfg kafka.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		exec, err := kafka.NewExecutor(kafka.NewWriter(cfg),
			kafka.WithConfig(cfg),
			kafka.WithQueueName(a.settings.Queue),
			kafka.WithLogger(a.log),
		)
		if err != nil {
			return nil, nil, err
		}
		return exec, cfg.Brokers, nil

	case sinkWebhook:
		var cfg webhook.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		exec, err := webhook.NewExecutor(cfg.URL,
			webhook.WithConfig(cfg),
			webhook.WithHeader("X-Offlineq-Queue", a.settings.Queue),
			webhook.WithLogger(a.log),
		)
		if err != nil {
			return nil, nil, err
		}
		return webhookSink{exec}, []string{hostPort(cfg.URL)}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSink, kind)
}

func hostPort(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Port() != "" {
		return u.Host
	}
	if u.Scheme == "https" {
		return net.JoinHostPort(u.Hostname(), "443")
	}
	return net.JoinHostPort(u.Hostname(), "80")
}

func (a *app) drain(ctx context.Context, cmd *cobra.Command, b *Backend, opts drainOptions) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := queue.NewMetrics(reg)
	if err != nil {
		return err
	}

	monitor := connectivity.NewProbeMonitor(
		connectivity.WithTargets(opts.targets...),
		connectivity.WithProbeLogger(a.log),
	)
	if err := monitor.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = monitor.Close() }()

	s, err := queue.New(ctx, a.settings.Queue, b.Storage, opts.exec, monitor,
		queue.WithConfig(opts.queue),
		queue.WithRescanOnReconnect(true),
		queue.WithLogger(a.log),
		queue.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	if opts.http.Addr != "" {
		stop := a.serve(ctx, opts.http, httpserver.NewHandler(
			httpserver.WithGatherer(reg),
			httpserver.WithQueue(s),
			httpserver.WithReadiness(b.Healthcheck),
			httpserver.WithHandlerLogger(a.log),
		))
		defer stop()
	}

	cp, err := checkpoint.New(s, opts.autosave.Interval,
		checkpoint.WithConfig(opts.autosave),
		checkpoint.WithLogger(a.log),
	)
	if err != nil {
		_ = s.Close()
		return err
	}
	if err := cp.Start(); err != nil {
		_ = s.Close()
		return err
	}

	loaded := s.Len()
	s.StartHandlingOperations()
	waitDrained(ctx, s, opts.follow)

	_ = s.Close()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.queue.ShutdownTimeout)
	defer cancel()
	if err := cp.Stop(saveCtx); err != nil {
		a.log.ErrorContext(ctx, "final save failed", logger.Queue(a.settings.Queue), logger.Error(err))
		return err
	}

	remaining, failed := s.Len(), countFailed(s.Operations())
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d, %d left in queue (%d failed).\n", loaded, remaining, failed)
	return nil
}

// serve runs the observability server in the background. The returned
// function stops it and waits for shutdown.
func (a *app) serve(ctx context.Context, cfg httpserver.Config, h http.Handler) func() {
	ctx, cancel := context.WithCancel(ctx)
	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(a.log))

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	return func() {
		cancel()
		if err := <-done; err != nil {
			a.log.WarnContext(ctx, "http server stopped with error", logger.Error(err))
		}
	}
}

// waitDrained blocks until ctx is done or, unless follow is set, until no
// operation is left that could still be delivered. Every tick rescans the
// queue so operations skipped while offline are picked up again.
func waitDrained(ctx context.Context, s *queue.Scheduler, follow bool) {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		if !follow && settled(s.Operations()) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.StartHandlingOperations()
		}
	}
}

func settled(ops []queue.Snapshot) bool {
	return countFailed(ops) == len(ops)
}

func countFailed(ops []queue.Snapshot) int {
	n := 0
	for _, op := range ops {
		if op.State == queue.StateFailed {
			n++
		}
	}
	return n
}
