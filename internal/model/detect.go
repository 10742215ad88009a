package model

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/anomredux/tokenwatch/internal/domain"
)

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CommandDetector asks the claude CLI which model is active.
type CommandDetector struct {
	Argv []string
	run  runFunc
}

func NewCommandDetector(argv []string) *CommandDetector {
	return &CommandDetector{Argv: argv, run: execOutput}
}

func (d *CommandDetector) Name() string { return "command" }

func (d *CommandDetector) Detect(ctx context.Context) (domain.Model, error) {
	if len(d.Argv) == 0 {
		return "", errNoModel
	}
	out, err := d.run(ctx, d.Argv[0], d.Argv[1:]...)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", d.Argv[0], err)
	}
	return parseModelOutput(string(out))
}

func parseModelOutput(out string) (domain.Model, error) {
	if m, ok := domain.FamilyOf(out); ok {
		return m, nil
	}
	lower := strings.ToLower(out)
	// default mode plans with opus
	if strings.Contains(lower, "plan mode") || strings.Contains(lower, "default") {
		return domain.ModelOpus, nil
	}
	return "", errNoModel
}

// ProcessDetector looks for a running claude process whose command line
// names a model.
type ProcessDetector struct {
	run runFunc
}

func NewProcessDetector() *ProcessDetector {
	return &ProcessDetector{run: execOutput}
}

func (d *ProcessDetector) Name() string { return "process" }

func (d *ProcessDetector) Detect(ctx context.Context) (domain.Model, error) {
	out, err := listProcesses(ctx, d.run)
	if err != nil {
		return "", err
	}
	return modelFromProcessList(out)
}

func listProcesses(ctx context.Context, run runFunc) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if runtime.GOOS == "windows" {
		out, err = run(ctx, "tasklist", "/v", "/fo", "csv")
	} else {
		out, err = run(ctx, "ps", "-eo", "args")
	}
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return out, nil
}

func modelFromProcessList(out []byte) (domain.Model, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.ToLower(sc.Text())
		if !strings.Contains(line, "claude") {
			continue
		}
		// "claude" alone matches no family, so only lines with a model flag count
		if m, ok := domain.FamilyOf(line); ok {
			return m, nil
		}
	}
	return "", errNoModel
}

// ProcessActive reports whether a claude or node process is running. It
// backs the monitor's activity probe.
func ProcessActive(ctx context.Context) (bool, error) {
	out, err := listProcesses(ctx, execOutput)
	if err != nil {
		return false, err
	}
	lower := strings.ToLower(string(out))
	return strings.Contains(lower, "claude") || strings.Contains(lower, "node"), nil
}

// StatuslineDetector reports the model named in Claude Code's statusline
// payload.
type StatuslineDetector struct {
	ModelName string
}

func (d StatuslineDetector) Name() string { return "statusline" }

func (d StatuslineDetector) Detect(context.Context) (domain.Model, error) {
	if m, ok := domain.FamilyOf(d.ModelName); ok {
		return m, nil
	}
	return "", errNoModel
}
