package monitor

import (
	"context"

	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/logger"
	"github.com/anomredux/tokenwatch/internal/model"
)

// ProcessProbe logs whether a claude or node process is running. It never
// touches the store.
type ProcessProbe struct {
	check  func(ctx context.Context) (bool, error)
	log    *zap.Logger
	active bool
	known  bool
}

// NewProcessProbe lists processes with the system tool when check is nil.
func NewProcessProbe(check func(ctx context.Context) (bool, error), log *zap.Logger) *ProcessProbe {
	if check == nil {
		check = model.ProcessActive
	}
	return &ProcessProbe{check: check, log: logger.OrNop(log)}
}

func (p *ProcessProbe) Name() string { return "process" }

// Active reports the result of the last successful check.
func (p *ProcessProbe) Active() bool { return p.active }

func (p *ProcessProbe) Run(ctx context.Context) error {
	active, err := p.check(ctx)
	if err != nil {
		return err
	}
	if !p.known || active != p.active {
		p.log.Info("claude activity changed", zap.Bool("active", active))
	} else {
		p.log.Debug("claude activity", zap.Bool("active", active))
	}
	p.active, p.known = active, true
	return nil
}
