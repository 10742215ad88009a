package model

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/domain"
	"github.com/anomredux/tokenwatch/internal/logger"
)

// ErrUnknownModel is returned when a name is not a known model family.
var ErrUnknownModel = errors.New("unknown model")

// errNoModel means a detector ran but found nothing usable.
var errNoModel = errors.New("no model detected")

type Source string

const (
	SourceForced    Source = "forced"
	SourceDetected  Source = "detected"
	SourceHeuristic Source = "heuristic"
)

// Resolution is the outcome of model resolution for one record.
type Resolution struct {
	Model      domain.Model
	Multiplier float64
	Source     Source
	Detector   string // set when Source is SourceDetected
}

// Detector is a best-effort probe for the active model.
type Detector interface {
	Name() string
	Detect(ctx context.Context) (domain.Model, error)
}

type Resolver struct {
	table     Table
	detectors []Detector
	heuristic Heuristic
	timeout   time.Duration
	log       *zap.Logger
}

type ResolverOptions struct {
	Table     Table
	Detectors []Detector
	Heuristic Heuristic
	Timeout   time.Duration // per detector
	Logger    *zap.Logger
}

func NewResolver(opts ResolverOptions) *Resolver {
	table := opts.Table
	if table == nil {
		table, _ = LoadDefault()
	}
	if opts.Heuristic == (Heuristic{}) {
		opts.Heuristic = DefaultHeuristic()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Resolver{
		table:     table,
		detectors: opts.Detectors,
		heuristic: opts.Heuristic,
		timeout:   opts.Timeout,
		log:       logger.OrNop(opts.Logger),
	}
}

func (r *Resolver) Table() Table { return r.table }

// Resolve picks the model for rec: a valid forced model wins, then the
// first detector that answers, then the usage heuristic. Detector failures
// are logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, rec domain.UsageRecord) Resolution {
	if rec.ForcedModel.Valid() {
		return r.resolution(rec.ForcedModel, SourceForced, "")
	}

	for _, d := range r.detectors {
		m, err := r.detect(ctx, d)
		if err != nil {
			r.log.Debug("model detector failed", zap.String("detector", d.Name()), zap.Error(err))
			continue
		}
		return r.resolution(m, SourceDetected, d.Name())
	}

	return r.resolution(r.heuristic.Guess(rec), SourceHeuristic, "")
}

func (r *Resolver) detect(ctx context.Context, d Detector) (domain.Model, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	m, err := d.Detect(ctx)
	if err != nil {
		return "", err
	}
	if !m.Valid() {
		return "", errNoModel
	}
	return m, nil
}

func (r *Resolver) resolution(m domain.Model, src Source, detector string) Resolution {
	return Resolution{
		Model:      m,
		Multiplier: r.table.Multiplier(string(m)),
		Source:     src,
		Detector:   detector,
	}
}
