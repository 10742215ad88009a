package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/domain"
	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/logger"
	"github.com/anomredux/tokenwatch/internal/model"
	"github.com/anomredux/tokenwatch/internal/monitor"
	"github.com/anomredux/tokenwatch/internal/parser"
	"github.com/anomredux/tokenwatch/internal/status"
)

const resetLayout = "2006-01-02 15:04"

func (a *app) statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "print the one-line usage summary",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "full", Usage: "prefix project name and git branch"},
			&cli.BoolFlag{Name: "stdin", Usage: "read Claude Code statusline JSON from stdin"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.reportStatus(ctx, cmd, cmd.Bool("full"), cmd.Bool("stdin"))
		},
	}
}

// reportStatus never fails the process: status lines are embedded in
// prompts and bars, where a non-zero exit is worse than a stale line.
func (a *app) reportStatus(ctx context.Context, cmd *cli.Command, full, stdin bool) error {
	ctx, err := a.setup(ctx, cmd)
	if err != nil {
		fmt.Fprintf(a.errOut, "tokenwatch: %v\n", err)
		return nil
	}
	log := logger.FromContext(ctx)

	dir, err := a.getwd()
	if err != nil {
		dir = "."
	}
	var extra []model.Detector
	if stdin {
		in, err := parser.ParseStatusline(a.in)
		if err != nil {
			log.Warn("statusline input ignored", zap.Error(err))
		}
		if name := in.ModelName(); name != "" {
			extra = append(extra, model.StatuslineDetector{ModelName: name})
		}
		if in.Workspace.CurrentDir != "" {
			dir = in.Workspace.CurrentDir
		}
	}

	snap := a.snapshot(ctx, extra...)
	r := a.reporter()
	if full {
		a.println(r.Statusline(ctx, snap, dir))
	} else {
		a.println(r.Compact(snap))
	}
	return nil
}

type detailJSON struct {
	Record           domain.UsageRecord `json:"record"`
	Model            domain.Model       `json:"model"`
	Multiplier       float64            `json:"multiplier"`
	Source           model.Source       `json:"source"`
	EffectiveTotal   int                `json:"effective_total"`
	MaxTokens        int                `json:"max_tokens"`
	Remaining        int                `json:"remaining"`
	PercentRemaining float64            `json:"percent_remaining"`
	PercentUsed      float64            `json:"percent_used"`
	SecondsLeft      int64              `json:"seconds_left"`
	RequestsLeft     int                `json:"requests_left"`
	Tier             string             `json:"tier"`
}

func (a *app) detailCommand() *cli.Command {
	return &cli.Command{
		Name:  "detail",
		Usage: "print the full usage report",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print machine-readable JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := a.setup(ctx, cmd)
			if err != nil {
				return err
			}
			snap := a.snapshot(ctx)
			if !cmd.Bool("json") {
				fmt.Fprint(a.out, a.reporter().Detail(snap))
				return nil
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(detailJSON{
				Record:           snap.Record,
				Model:            snap.Resolution.Model,
				Multiplier:       snap.Resolution.Multiplier,
				Source:           snap.Resolution.Source,
				EffectiveTotal:   snap.EffectiveTotal,
				MaxTokens:        snap.Budget.MaxTokens,
				Remaining:        snap.Remaining,
				PercentRemaining: snap.PercentRemaining,
				PercentUsed:      snap.PercentUsed,
				SecondsLeft:      int64(max(snap.TimeLeft, 0).Seconds()),
				RequestsLeft:     snap.RequestsLeft,
				Tier:             snap.Tier.String(),
			})
		},
	}
}

func (a *app) addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "record usage, either exact counts or text to estimate",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "input", Aliases: []string{"i"}, Usage: "input tokens"},
			&cli.IntFlag{Name: "output", Aliases: []string{"o"}, Usage: "output tokens"},
			&cli.StringFlag{Name: "text-input", Usage: "prompt text to estimate"},
			&cli.StringFlag{Name: "text-output", Usage: "response text to estimate"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := a.setup(ctx, cmd)
			if err != nil {
				return err
			}

			var (
				in, out   int
				estimated bool
				summary   string
			)
			switch {
			case cmd.IsSet("input") || cmd.IsSet("output"):
				in, out = int(cmd.Int("input")), int(cmd.Int("output"))
				summary = i18n.Tf("added", in, out)
			case cmd.IsSet("text-input") || cmd.IsSet("text-output"):
				est := a.estimator()
				in, out = est.Estimate(cmd.String("text-input")), est.Estimate(cmd.String("text-output"))
				estimated = true
				summary = i18n.Tf("estimated", in, out)
			default:
				return errors.New(i18n.T("add_needs_counts"))
			}

			rec, err := a.store.AddUsage(in, out, estimated)
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Debug("add", zap.Int("total", rec.TotalTokens))
			a.println(summary)
			a.println(i18n.Tf("total_usage", rec.TotalTokens))
			return nil
		},
	}
}

func (a *app) estimateCommand() *cli.Command {
	return &cli.Command{
		Name:      "estimate",
		Usage:     "estimate the token count of text without recording it",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "text to estimate"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := a.setup(ctx, cmd); err != nil {
				return err
			}
			text := cmd.String("text")
			if !cmd.IsSet("text") {
				text = strings.Join(cmd.Args().Slice(), " ")
			}
			a.printf("%d\n", a.estimator().Estimate(text))
			return nil
		},
	}
}

func (a *app) resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "discard usage and start a new window now",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := a.setup(ctx, cmd); err != nil {
				return err
			}
			rec, err := a.store.Reset()
			if err != nil {
				return err
			}
			a.println(i18n.Tf("reset_done", rec.WindowEnd.Local().Format(resetLayout)))
			return nil
		},
	}
}

func (a *app) modelCommand() *cli.Command {
	return &cli.Command{
		Name:  "model",
		Usage: "show or force the model used for the multiplier",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "set", Usage: "force a model: opus, sonnet or haiku"},
			&cli.BoolFlag{Name: "clear", Usage: "drop the forced model"},
			&cli.BoolFlag{Name: "list", Usage: "list known multipliers"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := a.setup(ctx, cmd)
			if err != nil {
				return err
			}

			switch {
			case cmd.Bool("list"):
				table := a.resolver(ctx).Table()
				for _, k := range table.Keys() {
					a.printf("%-10s x%s\n", k, status.FormatMultiplier(table[k]))
				}
				return nil

			case cmd.IsSet("set"):
				m, ok := domain.ParseModel(cmd.String("set"))
				if !ok {
					return fmt.Errorf("%w: %q (%s)", model.ErrUnknownModel, cmd.String("set"), availableModels())
				}
				if _, err := a.store.SetForcedModel(m); err != nil {
					return err
				}
				a.println(i18n.Tf("model_set", strings.ToUpper(string(m))))
				return nil

			case cmd.Bool("clear"):
				if _, err := a.store.SetForcedModel(""); err != nil {
					return err
				}
				a.println(i18n.T("model_cleared"))
				return nil
			}

			snap := a.snapshot(ctx)
			res := snap.Resolution
			a.println(i18n.Tf("model_current",
				strings.ToUpper(string(res.Model)), status.FormatMultiplier(res.Multiplier), res.Source))
			return nil
		},
	}
}

func availableModels() string {
	names := make([]string, len(domain.Models))
	for i, m := range domain.Models {
		names[i] = string(m)
	}
	return i18n.Tf("model_available", strings.Join(names, ", "))
}

func (a *app) requestCommand() *cli.Command {
	return &cli.Command{
		Name:  "request",
		Usage: "queue an update for a running monitor",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "input", Aliases: []string{"i"}, Usage: "input tokens"},
			&cli.IntFlag{Name: "output", Aliases: []string{"o"}, Usage: "output tokens"},
			&cli.BoolFlag{Name: "estimated", Usage: "mark the counts as estimates"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := a.setup(ctx, cmd); err != nil {
				return err
			}
			if !cmd.IsSet("input") && !cmd.IsSet("output") {
				return errors.New("--input or --output is required")
			}
			in, out := int(cmd.Int("input")), int(cmd.Int("output"))
			if in < 0 || out < 0 {
				return fmt.Errorf("%w: input=%d output=%d", parser.ErrInvalidRequest, in, out)
			}

			req := parser.NewRequest(in, out, cmd.Bool("estimated"), a.now())
			path := a.cfg.Paths.RequestPath()
			if err := monitor.WriteRequest(path, req); err != nil {
				return err
			}
			a.println(i18n.Tf("request_written", req.ID, path))
			return nil
		},
	}
}
