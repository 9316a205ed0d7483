package connectivity

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dmitrymomot/offlineq/pkg/logger"
)

// DialFunc opens a connection to address. It matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// LocalCheckFunc reports whether the host has a usable local network.
type LocalCheckFunc func() bool

// ProbeMonitor is a Monitor that polls reachability on an interval.
type ProbeMonitor struct {
	*ManualMonitor

	targets     []string
	interval    time.Duration
	dialTimeout time.Duration
	dial        DialFunc
	localCheck  LocalCheckFunc
	clock       clockwork.Clock
	logger      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ProbeOption configures a ProbeMonitor.
type ProbeOption func(*ProbeMonitor)

// WithTargets sets the wide-area host:port addresses to dial.
func WithTargets(targets ...string) ProbeOption {
	return func(p *ProbeMonitor) {
		if len(targets) > 0 {
			p.targets = targets
		}
	}
}

// WithInterval sets how often reachability is probed.
func WithInterval(d time.Duration) ProbeOption {
	return func(p *ProbeMonitor) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithDialTimeout bounds each dial attempt.
func WithDialTimeout(d time.Duration) ProbeOption {
	return func(p *ProbeMonitor) {
		if d > 0 {
			p.dialTimeout = d
		}
	}
}

// WithDialer replaces the function used to reach wide-area targets.
func WithDialer(dial DialFunc) ProbeOption {
	return func(p *ProbeMonitor) {
		if dial != nil {
			p.dial = dial
		}
	}
}

// WithLocalCheck replaces the local network detection.
func WithLocalCheck(check LocalCheckFunc) ProbeOption {
	return func(p *ProbeMonitor) {
		if check != nil {
			p.localCheck = check
		}
	}
}

// WithProbeClock sets the clock driving the polling ticker.
func WithProbeClock(clock clockwork.Clock) ProbeOption {
	return func(p *ProbeMonitor) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithProbeLogger sets the logger for status changes.
func WithProbeLogger(l *slog.Logger) ProbeOption {
	return func(p *ProbeMonitor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProbeMonitor creates a monitor that starts Unreachable until the first
// probe runs.
func NewProbeMonitor(opts ...ProbeOption) *ProbeMonitor {
	dialer := &net.Dialer{}
	p := &ProbeMonitor{
		ManualMonitor: NewManualMonitor(Unreachable),
		targets:       []string{"1.1.1.1:443", "8.8.8.8:53"},
		interval:      10 * time.Second,
		dialTimeout:   3 * time.Second,
		dial:          dialer.DialContext,
		localCheck:    hasLocalInterface,
		clock:         clockwork.NewRealClock(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check probes once, updates the status and returns it.
func (p *ProbeMonitor) Check(ctx context.Context) Status {
	status := p.probe(ctx)
	if p.Set(status) {
		p.logger.InfoContext(ctx, "connectivity changed",
			logger.Component("connectivity"),
			logger.Status(status.String()))
	}
	return status
}

// Start probes immediately and then on every interval until Stop.
func (p *ProbeMonitor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, p.cancel = context.WithCancel(ctx)
	ticker := p.clock.NewTicker(p.interval)
	p.Check(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				p.Check(ctx)
			}
		}
	}()

	return nil
}

// Stop halts polling and waits for an in-flight probe to finish.
func (p *ProbeMonitor) Stop() error {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}
	cancel()
	p.wg.Wait()
	return nil
}

// Close stops polling if needed and closes all subscriptions.
func (p *ProbeMonitor) Close() error {
	_ = p.Stop()
	return p.ManualMonitor.Close()
}

func (p *ProbeMonitor) probe(ctx context.Context) Status {
	for _, target := range p.targets {
		dialCtx, cancel := context.WithTimeout(ctx, p.dialTimeout)
		conn, err := p.dial(dialCtx, "tcp", target)
		cancel()
		if err == nil {
			_ = conn.Close()
			return ReachableWide
		}
		p.logger.DebugContext(ctx, "connectivity probe failed",
			logger.Component("connectivity"),
			slog.String("target", target),
			logger.Error(err))
	}

	if p.localCheck() {
		return ReachableLocal
	}
	return Unreachable
}

func hasLocalInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if addrs, err := iface.Addrs(); err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}
