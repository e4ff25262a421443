// Package strategy defines the strategy evaluator capability and the four
// reference strategies: mean reversion, trend following, breakout and
// momentum. Strategies are stateless; all tunable knobs travel through the
// Params map so a registry entry fully describes an evaluator.
package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/tradewind-lab/tradewind/internal/indicator"
	"github.com/tradewind-lab/tradewind/internal/types"
)

// Params is the named numeric knob set of a strategy.
type Params map[string]float64

// Get returns the value for key, or fallback when the key is absent.
func (p Params) Get(key string, fallback float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}

	return fallback
}

// Clone returns an independent copy of the params.
func (p Params) Clone() Params {
	clone := make(Params, len(p))
	for k, v := range p {
		clone[k] = v
	}

	return clone
}

// Strategy is the capability every evaluator implements: consume one symbol
// quote plus its indicator snapshot and produce at most one candidate signal.
// Evaluate must be deterministic and side-effect free.
type Strategy interface {
	// ID returns the unique registry key of the strategy.
	ID() string
	// Name returns the display name of the strategy.
	Name() string
	// Description returns a short human-readable description.
	Description() string
	// DefaultParams returns the reference parameter set.
	DefaultParams() Params
	// Evaluate produces a candidate signal for the quote, or None when the
	// strategy sees no opportunity.
	Evaluate(quote types.SymbolQuote, ind indicator.Snapshot, params Params) (optional.Option[types.CandidateSignal], error)
}

// Reference stop-loss and take-profit distances used when a strategy has no
// model-specific target.
const (
	defaultStopLossPct   = 0.03
	defaultTakeProfitPct = 0.08
)

// stopLossFor places the protective stop on the losing side of the price.
func stopLossFor(action types.Action, price float64) float64 {
	if action == types.ActionBuy {
		return price * (1 - defaultStopLossPct)
	}

	return price * (1 + defaultStopLossPct)
}

// targetFor places the default take-profit on the winning side of the price.
func targetFor(action types.Action, price float64) float64 {
	if action == types.ActionBuy {
		return price * (1 + defaultTakeProfitPct)
	}

	return price * (1 - defaultTakeProfitPct)
}

func capConfidence(confidence float64) float64 {
	const maxConfidence = 0.95

	if confidence > maxConfidence {
		return maxConfidence
	}

	if confidence < 0 {
		return 0
	}

	return confidence
}
