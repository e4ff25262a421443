package types

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tradewind-lab/tradewind/pkg/errors"
)

// Action is the direction of a trade signal.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// CandidateSignal is a single strategy's proposal for a trade. Target and stop
// loss must sit on opposite sides of the price consistent with the action:
// BUY requires stop < price < target, SELL requires target < price < stop.
type CandidateSignal struct {
	Action     Action  `yaml:"action" json:"action" validate:"required,oneof=BUY SELL"`
	Symbol     string  `yaml:"symbol" json:"symbol" validate:"required"`
	Price      float64 `yaml:"price" json:"price" validate:"required,gt=0"`
	Target     float64 `yaml:"target" json:"target" validate:"required,gt=0"`
	StopLoss   float64 `yaml:"stop_loss" json:"stop_loss" validate:"required,gt=0"`
	Confidence float64 `yaml:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	// Reasoning is a human-readable explanation of why the strategy fired.
	Reasoning string `yaml:"reasoning" json:"reasoning"`
	// StrategyID identifies the strategy that produced the signal.
	StrategyID  string    `yaml:"strategy_id" json:"strategy_id" validate:"required"`
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`
}

// Validate checks struct tags and the side consistency of target and stop loss.
func (s *CandidateSignal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid candidate signal", err)
	}

	switch s.Action {
	case ActionBuy:
		if !(s.StopLoss < s.Price && s.Price < s.Target) {
			return errors.Newf(errors.ErrCodeInvalidSignal,
				"BUY signal for %s requires stop < price < target (stop=%.4f price=%.4f target=%.4f)",
				s.Symbol, s.StopLoss, s.Price, s.Target)
		}
	case ActionSell:
		if !(s.Target < s.Price && s.Price < s.StopLoss) {
			return errors.Newf(errors.ErrCodeInvalidSignal,
				"SELL signal for %s requires target < price < stop (stop=%.4f price=%.4f target=%.4f)",
				s.Symbol, s.StopLoss, s.Price, s.Target)
		}
	}

	return nil
}

// RiskReward returns |target-price| / |price-stoploss|. A zero denominator
// (price equals stop loss) marks the signal as invalid rather than producing
// an infinite ratio.
func (s *CandidateSignal) RiskReward() (float64, error) {
	risk := math.Abs(s.Price - s.StopLoss)
	if risk == 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidSignal,
			"signal for %s has zero risk: price equals stop loss (%.4f)", s.Symbol, s.Price)
	}

	return math.Abs(s.Target-s.Price) / risk, nil
}

// RankedSignal is a candidate signal with its composite ranking score.
type RankedSignal struct {
	Signal CandidateSignal `yaml:"signal" json:"signal"`
	// Score is the composite ranking score; higher is better.
	Score float64 `yaml:"score" json:"score"`
}
