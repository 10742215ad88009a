package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/config"
	"github.com/anomredux/tokenwatch/internal/estimator"
	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/logger"
	"github.com/anomredux/tokenwatch/internal/model"
	"github.com/anomredux/tokenwatch/internal/status"
	"github.com/anomredux/tokenwatch/internal/store"
)

// app carries what every command needs once flags are parsed.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
	getwd  func() (string, error)

	cfg   config.Config
	log   *zap.Logger
	store *store.Store
	ready bool
}

func newApp() *app {
	return &app{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		now:    time.Now,
		getwd:  os.Getwd,
	}
}

// setup loads config and wires the store. Root flags are visible from every
// subcommand, so it can run from any action.
func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if a.ready {
		return logger.ContextWithLogger(ctx, a.log), nil
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if dir := cmd.String("data-dir"); dir != "" {
		cfg.Paths.Dir = dir
	}
	level := cfg.Logging.Level
	if cmd.Bool("debug") {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Logging.File)
	if err != nil {
		return ctx, err
	}
	i18n.SetLanguage(cfg.General.Language)

	a.cfg = cfg
	a.log = log
	a.store = store.New(store.Options{
		Path:    cfg.Paths.UsagePath(),
		LogPath: cfg.Paths.LogPath(),
		Window:  cfg.Budget.Window(),
		Now:     a.now,
		Logger:  log,
	})
	a.ready = true
	return logger.ContextWithLogger(ctx, log), nil
}

// resolver builds the model chain. Extra detectors run before the
// configured ones.
func (a *app) resolver(ctx context.Context, extra ...model.Detector) *model.Resolver {
	log := logger.FromContext(ctx)
	table, err := model.LoadDefault()
	if err != nil {
		log.Warn("load multiplier table", zap.Error(err))
		table = model.Table{}
	}
	table.Merge(a.cfg.Models.Multipliers)

	detectors := append([]model.Detector{}, extra...)
	if len(a.cfg.Models.DetectCommand) > 0 {
		detectors = append(detectors, model.NewCommandDetector(a.cfg.Models.DetectCommand))
	}
	if a.cfg.Models.DetectProcesses {
		detectors = append(detectors, model.NewProcessDetector())
	}

	m := a.cfg.Models
	return model.NewResolver(model.ResolverOptions{
		Table:     table,
		Detectors: detectors,
		Heuristic: model.Heuristic{
			OpusThreshold:       m.OpusThreshold,
			OpusBurstThreshold:  m.OpusBurstThreshold,
			OpusBurstMaxUpdates: m.OpusBurstMaxUpdates,
			HaikuThreshold:      m.HaikuThreshold,
			HaikuMinUpdates:     m.HaikuMinUpdates,
		},
		Timeout: a.cfg.Monitor.ProbeTimeoutDuration(),
		Logger:  log,
	})
}

func (a *app) estimator() estimator.Estimator {
	return estimator.New(a.cfg.Budget.CharsPerToken, a.cfg.Budget.TokenBuffer)
}

func (a *app) reporter() *status.Reporter {
	return status.NewReporter(a.cfg.General.Color)
}

// snapshot loads the record and resolves its model.
func (a *app) snapshot(ctx context.Context, extra ...model.Detector) status.Snapshot {
	rec := a.store.Load()
	res := a.resolver(ctx, extra...).Resolve(ctx, rec)
	return status.Compute(rec, res, status.BudgetFromConfig(a.cfg.Budget), a.now())
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}
