package strategy

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/tradewind-lab/tradewind/internal/indicator"
	"github.com/tradewind-lab/tradewind/internal/types"
)

// Breakout trades prices crossing key levels. The levels are derived from the
// history excluding the latest bar, so a fresh high actually registers as a
// break instead of raising its own resistance.
type Breakout struct{}

// NewBreakout creates the breakout strategy.
func NewBreakout() Strategy {
	return &Breakout{}
}

// ID implements Strategy.
func (s *Breakout) ID() string {
	return "breakout"
}

// Name implements Strategy.
func (s *Breakout) Name() string {
	return "Breakout"
}

// Description implements Strategy.
func (s *Breakout) Description() string {
	return "Trades the break of key support and resistance levels"
}

// DefaultParams implements Strategy.
func (s *Breakout) DefaultParams() Params {
	return Params{
		"resistance_level": 0.02,
		"volume_spike":     1.5,
	}
}

// Evaluate implements Strategy. A break only counts with volume confirmation:
// the current bar's volume must reach volume_spike times the average volume.
// When no volume data is available the volume gate is waived.
func (s *Breakout) Evaluate(quote types.SymbolQuote, ind indicator.Snapshot, params Params) (optional.Option[types.CandidateSignal], error) {
	history := quote.HistoricalPrices
	if len(history) < 2 {
		return optional.None[types.CandidateSignal](), nil
	}

	prior := history[:len(history)-1]
	resistance := indicator.Resistance(prior, indicator.DefaultLevelPeriod)
	support := indicator.Support(prior, indicator.DefaultLevelPeriod)

	if resistance <= 0 || support <= 0 {
		return optional.None[types.CandidateSignal](), nil
	}

	level := params.Get("resistance_level", 0.02)
	spike := params.Get("volume_spike", 1.5)

	volumeRatio := 1.0
	if quote.AverageVolume > 0 {
		volumeRatio = quote.Volume / quote.AverageVolume
	}

	var (
		action      types.Action
		penetration float64
		broken      string
	)

	switch {
	case quote.CurrentPrice > resistance:
		action = types.ActionBuy
		penetration = (quote.CurrentPrice - resistance) / resistance
		broken = "resistance"
	case quote.CurrentPrice < support:
		action = types.ActionSell
		penetration = (support - quote.CurrentPrice) / support
		broken = "support"
	default:
		return optional.None[types.CandidateSignal](), nil
	}

	if quote.AverageVolume > 0 && volumeRatio < spike {
		// Break without volume confirmation is likely a fakeout.
		return optional.None[types.CandidateSignal](), nil
	}

	depth := penetration / level
	if depth > 1 {
		depth = 1
	}

	confidence := capConfidence(0.6 + 0.25*depth + 0.1*minFloat(volumeRatio/spike, 1))

	signal := types.CandidateSignal{
		Action:     action,
		Symbol:     quote.Symbol,
		Price:      quote.CurrentPrice,
		Target:     targetFor(action, quote.CurrentPrice),
		StopLoss:   stopLossFor(action, quote.CurrentPrice),
		Confidence: confidence,
		Reasoning: fmt.Sprintf("%s break at %.4f (penetration %.2f%%, volume x%.2f)",
			broken, quote.CurrentPrice, penetration*100, volumeRatio),
		StrategyID:  s.ID(),
		GeneratedAt: time.Now(),
	}

	return optional.Some(signal), nil
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}

	return b
}

var _ Strategy = (*Breakout)(nil)
