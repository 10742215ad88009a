package model

import "github.com/anomredux/tokenwatch/internal/domain"

// Heuristic guesses the model from the shape of the usage record when
// nothing better is available. The thresholds are tunable guesses, not
// measured values, and the fallback leans toward opus.
type Heuristic struct {
	OpusThreshold       int
	OpusBurstThreshold  int
	OpusBurstMaxUpdates int
	HaikuThreshold      int
	HaikuMinUpdates     int
}

func DefaultHeuristic() Heuristic {
	return Heuristic{
		OpusThreshold:       80_000,
		OpusBurstThreshold:  50_000,
		OpusBurstMaxUpdates: 10,
		HaikuThreshold:      15_000,
		HaikuMinUpdates:     5,
	}
}

func (h Heuristic) Guess(r domain.UsageRecord) domain.Model {
	total := r.TotalTokens
	updates := r.Updates()
	switch {
	case total > h.OpusThreshold:
		return domain.ModelOpus
	case total > h.OpusBurstThreshold && updates < h.OpusBurstMaxUpdates:
		// few updates carrying a lot of tokens: large responses
		return domain.ModelOpus
	case total < h.HaikuThreshold && updates > h.HaikuMinUpdates:
		return domain.ModelHaiku
	default:
		return domain.ModelOpus
	}
}
