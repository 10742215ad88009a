package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/logger"
	"github.com/anomredux/tokenwatch/internal/parser"
)

// RequestProbe consumes the update drop file. The file is first renamed to
// a private claim file so a request dropped while one is being applied is
// left for the next round. The claim file is removed only after the update
// is applied, so a crash in between replays at most that one request.
type RequestProbe struct {
	path  string
	store Applier
	log   *zap.Logger
}

func NewRequestProbe(path string, store Applier, log *zap.Logger) *RequestProbe {
	return &RequestProbe{path: path, store: store, log: logger.OrNop(log)}
}

func (p *RequestProbe) Name() string { return "request" }

// ClaimPath is where a request being applied is kept.
func ClaimPath(path string) string { return path + ".processing" }

func (p *RequestProbe) Run(ctx context.Context) error {
	claim := ClaimPath(p.path)
	if _, err := os.Stat(claim); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat claimed request: %w", err)
		}
		err := os.Rename(p.path, claim)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("claim update request: %w", err)
		}
	} else {
		p.log.Info("replaying claimed update request", zap.String("path", claim))
	}
	return p.consume(ctx, claim)
}

func (p *RequestProbe) consume(ctx context.Context, claim string) error {
	data, err := os.ReadFile(claim)
	if err != nil {
		return fmt.Errorf("read update request: %w", err)
	}

	req, err := parser.ParseRequest(bytes.NewReader(data))
	if err != nil {
		p.remove(claim)
		return fmt.Errorf("discarded %s: %w", p.path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rec, err := p.store.ApplyUpdate(req)
	if err != nil {
		return fmt.Errorf("apply update request %s: %w", req.ID, err)
	}
	p.remove(claim)

	p.log.Info("update request applied",
		zap.String("id", req.ID),
		zap.Int("input", req.Input),
		zap.Int("output", req.Output),
		zap.Bool("estimated", req.Estimated),
		zap.Int("total", rec.TotalTokens))
	return nil
}

func (p *RequestProbe) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.log.Warn("remove update request", zap.String("path", path), zap.Error(err))
	}
}

// WriteRequest drops req at path for a running monitor. The file appears
// atomically so the probe never reads a partial request.
func WriteRequest(path string, req parser.UpdateRequest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create request dir: %w", err)
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode update request: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".request-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write update request: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
