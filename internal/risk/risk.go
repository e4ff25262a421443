// Package risk is the single admission-control point between a ranked signal
// and a committed trade. Every ranked signal passes through here, in ranked
// order, and nothing else writes new trades to the ledger.
package risk

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tradewind-lab/tradewind/internal/ledger"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
	"go.uber.org/zap"
)

// Reference admission limits.
const (
	DefaultMaxPositionSize = 0.1
	DefaultDuplicateWindow = time.Hour
)

// Limits are the frozen admission thresholds.
type Limits struct {
	// MaxPositionSize is the largest admissible position as a fraction of
	// capital.
	MaxPositionSize float64
	// DuplicateWindow is how long after an entry a symbol stays blocked for
	// new positions.
	DuplicateWindow time.Duration
}

// DefaultLimits returns the reference limits.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize: DefaultMaxPositionSize,
		DuplicateWindow: DefaultDuplicateWindow,
	}
}

// Validate checks the limits are usable.
func (l Limits) Validate() error {
	if l.MaxPositionSize <= 0 || l.MaxPositionSize > 1 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"max position size must be in (0,1], got %.4f", l.MaxPositionSize)
	}

	if l.DuplicateWindow <= 0 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"duplicate window must be positive, got %s", l.DuplicateWindow)
	}

	return nil
}

// RejectionReason classifies why admission control turned a signal down.
type RejectionReason string

const (
	ReasonDuplicatePosition RejectionReason = "duplicate_position"
	ReasonPositionTooLarge  RejectionReason = "position_too_large"
)

// Rejection is a normal negative admission outcome. It is not an error: the
// signal was well-formed, the limits just said no.
type Rejection struct {
	Reason RejectionReason
	Detail string
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

// Manager gates ranked signals against the position limits and commits
// accepted trades to the ledger.
type Manager struct {
	limits Limits
	ledger *ledger.Ledger
	log    *logger.Logger
}

// NewManager creates a risk manager writing to the given ledger.
func NewManager(limits Limits, l *ledger.Ledger, log *logger.Logger) (*Manager, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	return &Manager{
		limits: limits,
		ledger: l,
		log:    log,
	}, nil
}

// Admit validates and sizes one signal. On acceptance the returned trade has
// been appended to the ledger. On rejection the trade is zero and the
// rejection carries the reason. The error return is reserved for malformed
// signals and ledger failures.
func (m *Manager) Admit(signal types.CandidateSignal, now time.Time) (types.Trade, *Rejection, error) {
	riskReward, err := signal.RiskReward()
	if err != nil {
		return types.Trade{}, nil, err
	}

	cutoff := now.Add(-m.limits.DuplicateWindow)
	if m.ledger.HasOpenOrRecent(signal.Symbol, cutoff) {
		rejection := &Rejection{
			Reason: ReasonDuplicatePosition,
			Detail: fmt.Sprintf("open or recent position for %s within %s", signal.Symbol, m.limits.DuplicateWindow),
		}
		m.logRejection(signal, rejection)

		return types.Trade{}, rejection, nil
	}

	size := m.limits.MaxPositionSize * signal.Confidence * riskReward
	if size > m.limits.MaxPositionSize {
		// Oversized positions are rejected outright, never clipped down.
		rejection := &Rejection{
			Reason: ReasonPositionTooLarge,
			Detail: fmt.Sprintf("computed size %.4f exceeds maximum %.4f", size, m.limits.MaxPositionSize),
		}
		m.logRejection(signal, rejection)

		return types.Trade{}, rejection, nil
	}

	trade := types.Trade{
		ID:         newTradeID(now),
		Symbol:     signal.Symbol,
		Action:     signal.Action,
		EntryPrice: signal.Price,
		Quantity:   size,
		EntryTime:  now,
		StrategyID: signal.StrategyID,
		StopLoss:   signal.StopLoss,
		Target:     signal.Target,
	}

	if err := m.ledger.Append(trade); err != nil {
		return types.Trade{}, nil, errors.Wrapf(errors.ErrCodeTradeRejected, err,
			"failed to record admitted trade for %s", signal.Symbol)
	}

	m.log.Info("Admitted trade",
		zap.String("id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.String("action", string(trade.Action)),
		zap.String("strategy", trade.StrategyID),
		zap.Float64("quantity", trade.Quantity),
		zap.Float64("entry_price", trade.EntryPrice),
	)

	return trade, nil, nil
}

func (m *Manager) logRejection(signal types.CandidateSignal, rejection *Rejection) {
	// Rejections are telemetry, not failures; they log at info level with
	// their own shape so they never blend into evaluation errors.
	m.log.Info("Rejected signal",
		zap.String("symbol", signal.Symbol),
		zap.String("strategy", signal.StrategyID),
		zap.String("reason", string(rejection.Reason)),
		zap.String("detail", rejection.Detail),
	)
}

// newTradeID builds a unique, time-ordered trade id.
func newTradeID(now time.Time) string {
	return fmt.Sprintf("trade_%d_%s", now.UnixNano(), uuid.NewString())
}
