package risk

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tradewind-lab/tradewind/internal/ledger"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
)

type RiskTestSuite struct {
	suite.Suite
	ledger  *ledger.Ledger
	manager *Manager
	now     time.Time
}

func (s *RiskTestSuite) SetupTest() {
	s.ledger = ledger.New(logger.NewNopLogger())

	manager, err := NewManager(DefaultLimits(), s.ledger, logger.NewNopLogger())
	s.Require().NoError(err)
	s.manager = manager

	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

// signal builds a BUY candidate whose risk-reward ratio is
// (target-100)/(100-stopLoss).
func (s *RiskTestSuite) signal(symbol string, confidence, target, stopLoss float64) types.CandidateSignal {
	return types.CandidateSignal{
		Action:      types.ActionBuy,
		Symbol:      symbol,
		Price:       100,
		Target:      target,
		StopLoss:    stopLoss,
		Confidence:  confidence,
		Reasoning:   "test",
		StrategyID:  "mean_reversion",
		GeneratedAt: s.now,
	}
}

func (s *RiskTestSuite) TestNewManagerRejectsBadLimits() {
	_, err := NewManager(Limits{MaxPositionSize: 0, DuplicateWindow: time.Hour}, s.ledger, logger.NewNopLogger())
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewManager(Limits{MaxPositionSize: 0.1, DuplicateWindow: 0}, s.ledger, logger.NewNopLogger())
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (s *RiskTestSuite) TestAdmitAcceptsAndRecords() {
	// confidence 0.8, riskReward (108-100)/(100-92) = 1, size 0.1*0.8*1 = 0.08.
	trade, rejection, err := s.manager.Admit(s.signal("BTCUSDT", 0.8, 108, 92), s.now)

	s.Require().NoError(err)
	s.Require().Nil(rejection)

	s.True(strings.HasPrefix(trade.ID, "trade_"))
	s.Equal("BTCUSDT", trade.Symbol)
	s.Equal(types.ActionBuy, trade.Action)
	s.InDelta(0.08, trade.Quantity, 1e-9)
	s.Equal(s.now, trade.EntryTime)
	s.Equal("mean_reversion", trade.StrategyID)

	s.Equal(1, s.ledger.Len())
	recorded, err := s.ledger.Get(trade.ID)
	s.Require().NoError(err)
	s.True(recorded.IsOpen())
}

func (s *RiskTestSuite) TestAdmitRejectsOversizedPosition() {
	// confidence 0.8, riskReward (108-100)/(100-96) = 2, size 0.1*0.8*2 = 0.16.
	trade, rejection, err := s.manager.Admit(s.signal("BTCUSDT", 0.8, 108, 96), s.now)

	s.Require().NoError(err)
	s.Require().NotNil(rejection)
	s.Equal(ReasonPositionTooLarge, rejection.Reason)
	s.Contains(rejection.Detail, "0.1600")

	s.Empty(trade.ID)
	s.Equal(0, s.ledger.Len())
}

func (s *RiskTestSuite) TestAdmitRejectsDuplicateWithinWindow() {
	_, rejection, err := s.manager.Admit(s.signal("BTCUSDT", 0.8, 108, 92), s.now)
	s.Require().NoError(err)
	s.Require().Nil(rejection)

	// Same symbol half an hour later falls inside the one hour window.
	_, rejection, err = s.manager.Admit(s.signal("BTCUSDT", 0.8, 108, 92), s.now.Add(30*time.Minute))
	s.Require().NoError(err)
	s.Require().NotNil(rejection)
	s.Equal(ReasonDuplicatePosition, rejection.Reason)

	// A different symbol is unaffected.
	_, rejection, err = s.manager.Admit(s.signal("ETHUSDT", 0.8, 108, 92), s.now.Add(30*time.Minute))
	s.Require().NoError(err)
	s.Nil(rejection)
}

func (s *RiskTestSuite) TestAdmitAcceptsAfterWindowElapses() {
	first, rejection, err := s.manager.Admit(s.signal("BTCUSDT", 0.8, 108, 92), s.now)
	s.Require().NoError(err)
	s.Require().Nil(rejection)

	// Still open after the window: blocked.
	_, rejection, err = s.manager.Admit(s.signal("BTCUSDT", 0.8, 108, 92), s.now.Add(2*time.Hour))
	s.Require().NoError(err)
	s.Require().NotNil(rejection)
	s.Equal(ReasonDuplicatePosition, rejection.Reason)

	// Closed and past the window: admitted again.
	_, err = s.ledger.Close(first.ID, 108, s.now.Add(time.Hour))
	s.Require().NoError(err)

	trade, rejection, err := s.manager.Admit(s.signal("BTCUSDT", 0.8, 108, 92), s.now.Add(2*time.Hour))
	s.Require().NoError(err)
	s.Nil(rejection)
	s.NotEmpty(trade.ID)
}

func (s *RiskTestSuite) TestAdmitErrorsOnZeroRisk() {
	_, rejection, err := s.manager.Admit(s.signal("BTCUSDT", 0.8, 108, 100), s.now)

	s.Require().Error(err)
	s.Nil(rejection)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidSignal))
}

func (s *RiskTestSuite) TestTradeIDsAreUnique() {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := newTradeID(s.now)
		s.False(seen[id])
		seen[id] = true
	}
}

func TestRiskTestSuite(t *testing.T) {
	suite.Run(t, new(RiskTestSuite))
}
