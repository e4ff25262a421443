package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/tradewind-lab/tradewind/internal/indicator"
	"github.com/tradewind-lab/tradewind/internal/types"
)

// MeanReversion trades deviations from the 20-period moving average. The
// z-score of the relative deviation against recent volatility decides whether
// the price has stretched far enough to bet on a reversion to the mean.
type MeanReversion struct{}

// NewMeanReversion creates the mean reversion strategy.
func NewMeanReversion() Strategy {
	return &MeanReversion{}
}

// ID implements Strategy.
func (s *MeanReversion) ID() string {
	return "mean_reversion"
}

// Name implements Strategy.
func (s *MeanReversion) Name() string {
	return "Mean Reversion"
}

// Description implements Strategy.
func (s *MeanReversion) Description() string {
	return "Trades deviations from the moving average back toward the mean"
}

// DefaultParams implements Strategy.
func (s *MeanReversion) DefaultParams() Params {
	return Params{
		"period":    20,
		"deviation": 2,
	}
}

// Evaluate implements Strategy. The signal targets the moving average itself:
// a price below the mean yields a BUY with the mean as take-profit, a price
// above yields the mirrored SELL.
func (s *MeanReversion) Evaluate(quote types.SymbolQuote, ind indicator.Snapshot, params Params) (optional.Option[types.CandidateSignal], error) {
	mean := ind.SMA20
	if mean <= 0 || ind.Volatility == 0 {
		// Flat or empty history carries no reversion information.
		return optional.None[types.CandidateSignal](), nil
	}

	deviation := (quote.CurrentPrice - mean) / mean
	zScore := math.Abs(deviation) / ind.Volatility

	threshold := params.Get("deviation", 2)
	if zScore <= threshold {
		return optional.None[types.CandidateSignal](), nil
	}

	action := types.ActionBuy
	if deviation > 0 {
		action = types.ActionSell
	}

	// Confidence normalizes the z-score against a 3-sigma stretch.
	confidence := capConfidence(zScore / 3)

	signal := types.CandidateSignal{
		Action:     action,
		Symbol:     quote.Symbol,
		Price:      quote.CurrentPrice,
		Target:     mean,
		StopLoss:   stopLossFor(action, quote.CurrentPrice),
		Confidence: confidence,
		Reasoning: fmt.Sprintf("price deviates %.2f%% from SMA20 (z-score %.2f)",
			deviation*100, zScore),
		StrategyID:  s.ID(),
		GeneratedAt: time.Now(),
	}

	return optional.Some(signal), nil
}

var _ Strategy = (*MeanReversion)(nil)
