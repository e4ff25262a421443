// Package ledger holds the authoritative in-memory record of all trades. The
// ledger is append-only during normal operation: closing a position sets the
// exit fields on an existing record, nothing is ever deleted.
package ledger

import (
	"math"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
	"go.uber.org/zap"
)

// Ledger owns all Trade records for the process lifetime, keyed by trade id
// and kept in insertion order. It serializes mutation against performance
// recomputation so admission and reporting never observe a half-written trade.
type Ledger struct {
	mu     sync.RWMutex
	trades map[string]*types.Trade
	order  []string
	log    *logger.Logger
}

// New creates an empty ledger.
func New(log *logger.Logger) *Ledger {
	return &Ledger{
		trades: make(map[string]*types.Trade),
		order:  make([]string, 0),
		log:    log,
	}
}

// NewFromTrades creates a ledger seeded with persisted trades, in the order
// given.
func NewFromTrades(log *logger.Logger, trades []types.Trade) (*Ledger, error) {
	l := New(log)

	for _, trade := range trades {
		if err := l.Append(trade); err != nil {
			return nil, err
		}
	}

	l.log.Info("Seeded trade ledger", zap.Int("trades", len(trades)))

	return l, nil
}

// Append records a new trade. The trade must be valid and its id unused.
func (l *Ledger) Append(trade types.Trade) error {
	if err := trade.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.trades[trade.ID]; exists {
		return errors.Newf(errors.ErrCodeInvalidTrade, "trade with id %s already recorded", trade.ID)
	}

	stored := trade
	l.trades[trade.ID] = &stored
	l.order = append(l.order, trade.ID)

	return nil
}

// Get returns the trade with the given id.
func (l *Ledger) Get(id string) (types.Trade, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trade, exists := l.trades[id]
	if !exists {
		return types.Trade{}, errors.Newf(errors.ErrCodeTradeNotFound, "trade with id %s not found", id)
	}

	return *trade, nil
}

// All returns a copy of every trade in insertion order.
func (l *Ledger) All() []types.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trades := make([]types.Trade, 0, len(l.order))
	for _, id := range l.order {
		trades = append(trades, *l.trades[id])
	}

	return trades
}

// OpenTrades returns a copy of every trade without an exit, in insertion order.
func (l *Ledger) OpenTrades() []types.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	open := make([]types.Trade, 0)
	for _, id := range l.order {
		if l.trades[id].IsOpen() {
			open = append(open, *l.trades[id])
		}
	}

	return open
}

// Len returns the number of trades recorded.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.order)
}

// HasOpenOrRecent reports whether the symbol has an open position or one
// entered at or after the cutoff. This backs the duplicate-trade rule.
func (l *Ledger) HasOpenOrRecent(symbol string, cutoff time.Time) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, id := range l.order {
		trade := l.trades[id]
		if trade.Symbol != symbol {
			continue
		}

		if trade.IsOpen() || !trade.EntryTime.Before(cutoff) {
			return true
		}
	}

	return false
}

// Close sets the exit fields on an open trade.
func (l *Ledger) Close(id string, price float64, at time.Time) (types.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trade, exists := l.trades[id]
	if !exists {
		return types.Trade{}, errors.Newf(errors.ErrCodeTradeNotFound, "trade with id %s not found", id)
	}

	if trade.Exit.IsSome() {
		return types.Trade{}, errors.Newf(errors.ErrCodeTradeClosed, "trade with id %s already closed", id)
	}

	trade.Exit = optional.Some(types.TradeExit{Price: price, Time: at})

	l.log.Info("Closed trade",
		zap.String("id", id),
		zap.String("symbol", trade.Symbol),
		zap.Float64("exit_price", price),
	)

	return *trade, nil
}

// Performance recomputes the aggregate performance snapshot from the full
// ledger. It never patches incremental counters, so the result is always
// reproducible from the trade records alone. An empty ledger yields all
// zeros.
func (l *Ledger) Performance(now time.Time) types.PerformanceSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := types.PerformanceSnapshot{
		Time:        now,
		TotalTrades: len(l.order),
	}

	profit := decimal.Zero
	returns := make([]float64, 0, len(l.order))
	wins := 0

	for _, id := range l.order {
		trade := l.trades[id]

		if trade.IsOpen() {
			snapshot.OpenPositions++

			continue
		}

		pnl := trade.PnL()
		profit = profit.Add(pnl)

		if pnl.IsPositive() {
			wins++
		}

		returns = append(returns, trade.ReturnFraction())
	}

	snapshot.TotalProfit = profit.InexactFloat64()

	if closed := len(returns); closed > 0 {
		snapshot.WinRate = float64(wins) / float64(closed)
	}

	snapshot.SharpeRatio = sharpe(returns)

	return snapshot
}

// sharpe is the mean over standard deviation of closed-trade returns. It is
// zero when fewer than two returns exist or the variance is zero.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	if variance == 0 {
		return 0
	}

	return mean / math.Sqrt(variance)
}
