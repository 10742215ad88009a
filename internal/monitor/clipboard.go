package monitor

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/estimator"
	"github.com/anomredux/tokenwatch/internal/logger"
	"github.com/anomredux/tokenwatch/internal/parser"
)

// ClipboardProbe estimates conversations copied to the clipboard and
// records them as estimated usage. Each distinct clipboard text is counted
// once.
type ClipboardProbe struct {
	read  func() (string, error)
	est   estimator.Estimator
	store Applier
	log   *zap.Logger

	last [sha256.Size]byte
	seen bool

	// set while a read is outstanding, including one abandoned on timeout
	pending atomic.Bool
}

// ErrReadPending is returned while an earlier clipboard read has not
// finished.
var ErrReadPending = errors.New("clipboard read still pending")

// NewClipboardProbe reads the system clipboard when read is nil.
func NewClipboardProbe(store Applier, est estimator.Estimator, read func() (string, error), log *zap.Logger) *ClipboardProbe {
	if read == nil {
		read = clipboard.ReadAll
	}
	return &ClipboardProbe{read: read, est: est, store: store, log: logger.OrNop(log)}
}

func (p *ClipboardProbe) Name() string { return "clipboard" }

func (p *ClipboardProbe) Run(ctx context.Context) error {
	text, err := p.readContext(ctx)
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	if text == "" {
		return nil
	}

	sum := sha256.Sum256([]byte(text))
	if p.seen && sum == p.last {
		return nil
	}
	p.last, p.seen = sum, true

	if !parser.LooksLikeConversation(text) {
		return nil
	}
	in, out := p.est.EstimateTranscript(text)
	if in == 0 && out == 0 {
		return nil
	}
	rec, err := p.store.ApplyUpdate(parser.UpdateRequest{Input: in, Output: out, Estimated: true})
	if err != nil {
		return fmt.Errorf("apply clipboard estimate: %w", err)
	}
	p.log.Info("conversation detected on clipboard",
		zap.Int("input", in),
		zap.Int("output", out),
		zap.Int("total", rec.TotalTokens))
	return nil
}

// readContext bounds the clipboard helper, which may shell out and hang.
// At most one read runs at a time, so a stuck helper holds one goroutine.
func (p *ClipboardProbe) readContext(ctx context.Context) (string, error) {
	if !p.pending.CompareAndSwap(false, true) {
		return "", ErrReadPending
	}
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		defer p.pending.Store(false)
		text, err := p.read()
		ch <- result{text, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.text, r.err
	}
}
