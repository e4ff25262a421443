package strategy

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/tradewind-lab/tradewind/internal/indicator"
	"github.com/tradewind-lab/tradewind/internal/types"
)

// Momentum trades RSI extremes: oversold readings trigger a BUY, overbought
// readings a SELL.
type Momentum struct{}

// NewMomentum creates the momentum strategy.
func NewMomentum() Strategy {
	return &Momentum{}
}

// ID implements Strategy.
func (s *Momentum) ID() string {
	return "momentum"
}

// Name implements Strategy.
func (s *Momentum) Name() string {
	return "Momentum"
}

// Description implements Strategy.
func (s *Momentum) Description() string {
	return "Trades price momentum at RSI overbought and oversold extremes"
}

// DefaultParams implements Strategy.
func (s *Momentum) DefaultParams() Params {
	return Params{
		"momentum_period": 14,
		"overbought":      70,
		"oversold":        30,
	}
}

// Evaluate implements Strategy. Confidence scales with how far the RSI sits
// past the configured bound.
func (s *Momentum) Evaluate(quote types.SymbolQuote, ind indicator.Snapshot, params Params) (optional.Option[types.CandidateSignal], error) {
	prices := quote.HistoricalPrices
	if len(prices) == 0 {
		return optional.None[types.CandidateSignal](), nil
	}

	period := int(params.Get("momentum_period", indicator.DefaultRSIPeriod))
	overbought := params.Get("overbought", 70)
	oversold := params.Get("oversold", 30)

	rsi := indicator.RSI(prices, period)

	var (
		action     types.Action
		confidence float64
		zone       string
	)

	switch {
	case rsi < oversold && oversold > 0:
		action = types.ActionBuy
		confidence = capConfidence(0.5 + (oversold-rsi)/oversold)
		zone = "oversold"
	case rsi > overbought && overbought < 100:
		action = types.ActionSell
		confidence = capConfidence(0.5 + (rsi-overbought)/(100-overbought))
		zone = "overbought"
	default:
		return optional.None[types.CandidateSignal](), nil
	}

	signal := types.CandidateSignal{
		Action:      action,
		Symbol:      quote.Symbol,
		Price:       quote.CurrentPrice,
		Target:      targetFor(action, quote.CurrentPrice),
		StopLoss:    stopLossFor(action, quote.CurrentPrice),
		Confidence:  confidence,
		Reasoning:   fmt.Sprintf("RSI %s (value %.2f over period %d)", zone, rsi, period),
		StrategyID:  s.ID(),
		GeneratedAt: time.Now(),
	}

	return optional.Some(signal), nil
}

var _ Strategy = (*Momentum)(nil)
