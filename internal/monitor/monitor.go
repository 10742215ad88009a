// Package monitor runs the background probes that feed the usage store
// between explicit CLI updates.
package monitor

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/domain"
	"github.com/anomredux/tokenwatch/internal/logger"
	"github.com/anomredux/tokenwatch/internal/parser"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultProbeTimeout = 5 * time.Second
)

// Probe is one best-effort check run every round. Errors are logged by the
// monitor and never stop the loop.
type Probe interface {
	Name() string
	Run(ctx context.Context) error
}

// Applier is the store surface the probes write through.
type Applier interface {
	ApplyUpdate(req parser.UpdateRequest) (domain.UsageRecord, error)
}

type Options struct {
	Interval     time.Duration
	ProbeTimeout time.Duration
	Probes       []Probe
	// OnDemand runs between ticks whenever Notify is called.
	OnDemand Probe
	Logger   *zap.Logger
}

type Monitor struct {
	interval time.Duration
	timeout  time.Duration
	probes   []Probe
	onDemand Probe
	wake     chan struct{}
	log      *zap.Logger
}

func New(opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	return &Monitor{
		interval: opts.Interval,
		timeout:  opts.ProbeTimeout,
		probes:   opts.Probes,
		onDemand: opts.OnDemand,
		wake:     make(chan struct{}, 1),
		log:      logger.OrNop(opts.Logger),
	}
}

// Notify asks the loop to run the on-demand probe soon. It never blocks;
// notifications arriving while one is pending are merged.
func (m *Monitor) Notify() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Run executes a round immediately and then one per interval until ctx is
// cancelled. Probes run sequentially on the calling goroutine. Nothing is
// written on shutdown.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("monitor started",
		zap.Duration("interval", m.interval),
		zap.Strings("probes", lo.Map(m.probes, func(p Probe, _ int) string { return p.Name() })))

	m.RunOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return nil
		case <-ticker.C:
			m.RunOnce(ctx)
		case <-m.wake:
			if m.onDemand != nil {
				m.runProbe(ctx, m.onDemand)
			}
		}
	}
}

// RunOnce runs every probe in order, each under its own timeout.
func (m *Monitor) RunOnce(ctx context.Context) {
	for _, p := range m.probes {
		if ctx.Err() != nil {
			return
		}
		m.runProbe(ctx, p)
	}
}

func (m *Monitor) runProbe(ctx context.Context, p Probe) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		m.log.Warn("probe failed", zap.String("probe", p.Name()), zap.Error(err))
	}
}
