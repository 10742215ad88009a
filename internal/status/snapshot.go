package status

import (
	"time"

	"github.com/anomredux/tokenwatch/internal/config"
	"github.com/anomredux/tokenwatch/internal/domain"
	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/model"
)

// Budget is what a window allows and the assumptions behind work-time advice.
type Budget struct {
	MaxTokens        int
	TokensPerRequest int
	RequestsPerHour  int
}

func BudgetFromConfig(c config.BudgetConfig) Budget {
	return Budget{
		MaxTokens:        c.MaxTokens,
		TokensPerRequest: c.TokensPerRequest,
		RequestsPerHour:  c.RequestsPerHour,
	}
}

// Tier buckets the estimated hours of work left. Advisory only.
type Tier int

const (
	TierCritical Tier = iota
	TierLow
	TierModerate
	TierSufficient
)

func (t Tier) String() string {
	switch t {
	case TierSufficient:
		return "sufficient"
	case TierModerate:
		return "moderate"
	case TierLow:
		return "low"
	}
	return "critical"
}

// Advice is the localized one-line recommendation for the tier.
func (t Tier) Advice() string {
	return i18n.T("tier_" + t.String())
}

func tierFor(hours float64) Tier {
	switch {
	case hours > 10:
		return TierSufficient
	case hours > 5:
		return TierModerate
	case hours > 2:
		return TierLow
	}
	return TierCritical
}

// Level drives the compact indicator, chosen by percent remaining.
type Level int

const (
	LevelCritical Level = iota // < 20%
	LevelWarn                  // >= 20%
	LevelFair                  // >= 50%
	LevelGood                  // >= 80%
)

func levelFor(percentRemaining float64) Level {
	switch {
	case percentRemaining >= 80:
		return LevelGood
	case percentRemaining >= 50:
		return LevelFair
	case percentRemaining >= 20:
		return LevelWarn
	}
	return LevelCritical
}

// Snapshot is everything the reporters print, computed once.
type Snapshot struct {
	Record     domain.UsageRecord
	Resolution model.Resolution
	Budget     Budget
	Now        time.Time

	RawTotal       int
	EffectiveTotal int
	// Remaining is signed; negative means the budget is overdrawn.
	Remaining        int
	DisplayRemaining int
	PercentRemaining float64 // clamped to [0, 100]
	PercentUsed      float64 // unclamped
	TimeLeft         time.Duration
	Expired          bool

	WorkHours    float64
	RequestsLeft int
	Tier         Tier
	Level        Level
}

// Compute derives a snapshot. It does no I/O.
func Compute(rec domain.UsageRecord, res model.Resolution, b Budget, now time.Time) Snapshot {
	mult := res.Multiplier
	if mult <= 0 {
		mult = 1
	}
	s := Snapshot{
		Record:     rec,
		Resolution: res,
		Budget:     b,
		Now:        now,
		RawTotal:   rec.TotalTokens,
		TimeLeft:   rec.WindowEnd.Sub(now),
		Expired:    rec.Expired(now),
	}
	s.EffectiveTotal = int(float64(rec.TotalTokens) * mult)
	s.Remaining = b.MaxTokens - s.EffectiveTotal
	s.DisplayRemaining = max(s.Remaining, 0)

	if b.MaxTokens > 0 {
		s.PercentRemaining = min(100, 100*float64(s.DisplayRemaining)/float64(b.MaxTokens))
		s.PercentUsed = 100 * float64(s.EffectiveTotal) / float64(b.MaxTokens)
	}

	if b.TokensPerRequest > 0 {
		s.RequestsLeft = s.DisplayRemaining / b.TokensPerRequest
		if b.RequestsPerHour > 0 {
			s.WorkHours = float64(s.DisplayRemaining) / float64(b.TokensPerRequest) / float64(b.RequestsPerHour)
		}
	}
	s.Tier = tierFor(s.WorkHours)
	s.Level = levelFor(s.PercentRemaining)
	return s
}
