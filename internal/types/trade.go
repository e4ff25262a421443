package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tradewind-lab/tradewind/pkg/errors"
)

// TradeExit records the closing price and time of a trade.
type TradeExit struct {
	Price float64   `yaml:"price" json:"price"`
	Time  time.Time `yaml:"time" json:"time"`
}

// Trade is a committed position created by the risk manager on admission.
// A trade is never mutated after creation except to set the exit fields on
// close.
type Trade struct {
	// ID is unique and time-ordered (entry timestamp prefix).
	ID         string  `yaml:"id" json:"id" validate:"required"`
	Symbol     string  `yaml:"symbol" json:"symbol" validate:"required"`
	Action     Action  `yaml:"action" json:"action" validate:"required,oneof=BUY SELL"`
	EntryPrice float64 `yaml:"entry_price" json:"entry_price" validate:"required,gt=0"`
	// Quantity is the position size as a fraction of capital.
	Quantity   float64   `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time" validate:"required"`
	StrategyID string    `yaml:"strategy_id" json:"strategy_id" validate:"required"`
	StopLoss   float64   `yaml:"stop_loss" json:"stop_loss" validate:"required,gt=0"`
	Target     float64   `yaml:"target" json:"target" validate:"required,gt=0"`
	// Exit is absent while the position is open.
	Exit optional.Option[TradeExit] `yaml:"exit" json:"exit"`
}

// Validate validates the Trade struct.
func (t *Trade) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTrade, "invalid trade", err)
	}

	return nil
}

// IsOpen reports whether the trade has no exit recorded yet.
func (t *Trade) IsOpen() bool {
	return t.Exit.IsNone()
}

// PnL returns the realized profit of a closed trade per unit of capital
// committed. Open trades contribute zero. For SELL trades the sign is
// inverted: profit when the exit price is below the entry.
func (t *Trade) PnL() decimal.Decimal {
	if t.Exit.IsNone() {
		return decimal.Zero
	}

	exit := t.Exit.Unwrap()

	entryDec := decimal.NewFromFloat(t.EntryPrice)
	exitDec := decimal.NewFromFloat(exit.Price)
	qtyDec := decimal.NewFromFloat(t.Quantity)

	diff := exitDec.Sub(entryDec)
	if t.Action == ActionSell {
		diff = entryDec.Sub(exitDec)
	}

	return diff.Mul(qtyDec)
}

// ReturnFraction returns the realized return of a closed trade relative to
// its entry price. Zero while open.
func (t *Trade) ReturnFraction() float64 {
	if t.Exit.IsNone() || t.EntryPrice == 0 {
		return 0
	}

	exit := t.Exit.Unwrap()

	r := (exit.Price - t.EntryPrice) / t.EntryPrice
	if t.Action == ActionSell {
		r = -r
	}

	return r
}
