package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/tradewind-lab/tradewind/internal/indicator"
	"github.com/tradewind-lab/tradewind/internal/types"
)

// TrendFollowing trades in the direction of the prevailing trend, detected as
// a divergence between the fast (10) and slow (30) moving averages.
type TrendFollowing struct{}

// NewTrendFollowing creates the trend following strategy.
func NewTrendFollowing() Strategy {
	return &TrendFollowing{}
}

// ID implements Strategy.
func (s *TrendFollowing) ID() string {
	return "trend_following"
}

// Name implements Strategy.
func (s *TrendFollowing) Name() string {
	return "Trend Following"
}

// Description implements Strategy.
func (s *TrendFollowing) Description() string {
	return "Trades in the direction of the dominant market trend"
}

// DefaultParams implements Strategy.
func (s *TrendFollowing) DefaultParams() Params {
	return Params{
		"fast_ma":        10,
		"slow_ma":        30,
		"trend_strength": 0.7,
	}
}

// Evaluate implements Strategy.
func (s *TrendFollowing) Evaluate(quote types.SymbolQuote, ind indicator.Snapshot, params Params) (optional.Option[types.CandidateSignal], error) {
	if ind.SMA30 <= 0 {
		return optional.None[types.CandidateSignal](), nil
	}

	strength := math.Abs(ind.SMA10-ind.SMA30) / ind.SMA30

	threshold := params.Get("trend_strength", 0.7)
	if strength <= threshold {
		return optional.None[types.CandidateSignal](), nil
	}

	action := types.ActionBuy
	direction := "up"

	if ind.SMA10 < ind.SMA30 {
		action = types.ActionSell
		direction = "down"
	}

	signal := types.CandidateSignal{
		Action:     action,
		Symbol:     quote.Symbol,
		Price:      quote.CurrentPrice,
		Target:     targetFor(action, quote.CurrentPrice),
		StopLoss:   stopLossFor(action, quote.CurrentPrice),
		Confidence: capConfidence(strength),
		Reasoning: fmt.Sprintf("%strend with strength %.2f%% (SMA10 %.4f vs SMA30 %.4f)",
			direction, strength*100, ind.SMA10, ind.SMA30),
		StrategyID:  s.ID(),
		GeneratedAt: time.Now(),
	}

	return optional.Some(signal), nil
}

var _ Strategy = (*TrendFollowing)(nil)
