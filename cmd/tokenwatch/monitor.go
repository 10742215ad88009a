package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/logger"
	"github.com/anomredux/tokenwatch/internal/monitor"
	"github.com/anomredux/tokenwatch/internal/status"
	"github.com/anomredux/tokenwatch/internal/ui"
	"github.com/anomredux/tokenwatch/internal/watcher"
)

// requestPollInterval bounds how long a dropped request waits when fsnotify
// misses it.
const requestPollInterval = 2 * time.Second

func (a *app) monitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "watch the clipboard and request file in the foreground",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "interval", Usage: "seconds between probe rounds (default from config)"},
			&cli.BoolFlag{Name: "daemon", Usage: "record a pid file so `monitor stop` can find this process"},
		},
		Action: a.runMonitor,
		Commands: []*cli.Command{
			{
				Name:  "stop",
				Usage: "stop a monitor started with --daemon",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.setup(ctx, cmd); err != nil {
						return err
					}
					pid, err := monitor.StopDaemon(a.cfg.Paths.PIDPath())
					if err != nil {
						return err
					}
					a.println(i18n.Tf("monitor_signaled", pid))
					return nil
				},
			},
		},
	}
}

func (a *app) runMonitor(ctx context.Context, cmd *cli.Command) error {
	ctx, err := a.setup(ctx, cmd)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	interval := a.cfg.Monitor.IntervalDuration()
	if cmd.IsSet("interval") {
		if n := int(cmd.Int("interval")); n > 0 {
			interval = time.Duration(n) * time.Second
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Bool("daemon") {
		pidPath := a.cfg.Paths.PIDPath()
		if err := monitor.WritePID(pidPath); err != nil {
			if errors.Is(err, monitor.ErrAlreadyRunning) {
				pid, _ := monitor.ReadPID(pidPath)
				return errors.New(i18n.Tf("monitor_running", pid))
			}
			return err
		}
		defer func() {
			if err := monitor.RemovePID(pidPath); err != nil {
				log.Warn("remove pid file", zap.Error(err))
			}
		}()
	}

	requests := monitor.NewRequestProbe(a.cfg.Paths.RequestPath(), a.store, log)
	probes := []monitor.Probe{requests}
	if a.cfg.Monitor.Clipboard {
		probes = append(probes, monitor.NewClipboardProbe(a.store, a.estimator(), nil, log))
	}
	if a.cfg.Monitor.Processes {
		probes = append(probes, monitor.NewProcessProbe(nil, log))
	}

	m := monitor.New(monitor.Options{
		Interval:     interval,
		ProbeTimeout: a.cfg.Monitor.ProbeTimeoutDuration(),
		Probes:       probes,
		OnDemand:     requests,
		Logger:       log,
	})

	w := watcher.New(a.cfg.Paths.RequestPath(), requestPollInterval, func(string) { m.Notify() }, log)
	if err := w.Start(); err != nil {
		log.Warn("request watcher unavailable, relying on ticks", zap.Error(err))
	} else {
		defer w.Stop()
	}

	a.println(i18n.Tf("monitor_started", interval))
	err = m.Run(ctx)
	a.println(i18n.T("monitor_stopped"))
	return err
}

func (a *app) watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "live terminal view of the current window",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := a.setup(ctx, cmd)
			if err != nil {
				return err
			}
			resolver := a.resolver(ctx)
			budget := status.BudgetFromConfig(a.cfg.Budget)
			source := func(ctx context.Context) (status.Snapshot, error) {
				rec := a.store.Load()
				return status.Compute(rec, resolver.Resolve(ctx, rec), budget, a.now()), nil
			}

			interval := time.Duration(a.cfg.General.Interval) * time.Second
			p := tea.NewProgram(ui.NewApp(source, a.reporter(), interval), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
