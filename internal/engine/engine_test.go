package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"github.com/tradewind-lab/tradewind/internal/config"
	"github.com/tradewind-lab/tradewind/internal/indicator"
	"github.com/tradewind-lab/tradewind/internal/ledger"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/marketdata"
	"github.com/tradewind-lab/tradewind/internal/ranker"
	"github.com/tradewind-lab/tradewind/internal/risk"
	"github.com/tradewind-lab/tradewind/internal/store"
	"github.com/tradewind-lab/tradewind/internal/strategy"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
)

// alwaysBuy fires a fixed-confidence BUY with risk-reward 1, so admission
// sizes stay below the default maximum.
type alwaysBuy struct{}

func (s *alwaysBuy) ID() string                     { return "always_buy" }
func (s *alwaysBuy) Name() string                   { return "Always Buy" }
func (s *alwaysBuy) Description() string            { return "test strategy" }
func (s *alwaysBuy) DefaultParams() strategy.Params { return strategy.Params{} }

func (s *alwaysBuy) Evaluate(quote types.SymbolQuote, _ indicator.Snapshot, _ strategy.Params) (optional.Option[types.CandidateSignal], error) {
	return optional.Some(types.CandidateSignal{
		Action:      types.ActionBuy,
		Symbol:      quote.Symbol,
		Price:       quote.CurrentPrice,
		Target:      quote.CurrentPrice * 1.08,
		StopLoss:    quote.CurrentPrice * 0.92,
		Confidence:  0.8,
		Reasoning:   "test",
		StrategyID:  "always_buy",
		GeneratedAt: time.Now(),
	}), nil
}

type fakeTicker struct {
	ch chan time.Time
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ch: make(chan time.Time)}
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}
func (f *fakeTicker) tick()               { f.ch <- time.Now() }

// blockingProvider parks GetSnapshot until released, to make an in-flight
// cycle observable.
type blockingProvider struct {
	inner   marketdata.Provider
	entered chan struct{}
	release chan struct{}
}

func (b *blockingProvider) GetSnapshot(ctx context.Context, symbols []string) (types.MarketSnapshot, error) {
	b.entered <- struct{}{}
	<-b.release

	return b.inner.GetSnapshot(ctx, symbols)
}

type recordingSink struct {
	mu       sync.Mutex
	messages []string
	levels   []NotificationLevel
}

func (r *recordingSink) Notify(message string, level NotificationLevel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, message)
	r.levels = append(r.levels, level)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.messages)
}

type EngineTestSuite struct {
	suite.Suite
	cfg      config.Config
	provider *marketdata.StaticProvider
	ledger   *ledger.Ledger
	sink     *recordingSink
	ticker   *fakeTicker
	results  chan CycleResult
}

func (s *EngineTestSuite) SetupTest() {
	s.cfg = config.DefaultConfig()
	s.cfg.Symbols = []string{"BTCUSDT"}

	s.provider = marketdata.NewStaticProvider([]types.SymbolQuote{
		{Symbol: "BTCUSDT", CurrentPrice: 100, HistoricalPrices: []float64{99, 100}},
	})
	s.ledger = ledger.New(logger.NewNopLogger())
	s.sink = &recordingSink{}
	s.ticker = newFakeTicker()
	s.results = make(chan CycleResult, 16)
}

func (s *EngineTestSuite) newEngine(provider marketdata.Provider, tradeStore store.TradeStore) *Engine {
	log := logger.NewNopLogger()

	registry := strategy.NewRegistry(log)
	s.Require().NoError(registry.Register(&alwaysBuy{}))

	r, err := ranker.New(ranker.DefaultWeights(), s.cfg.TopSignals, log)
	s.Require().NoError(err)

	riskManager, err := risk.NewManager(risk.Limits{
		MaxPositionSize: s.cfg.MaxPositionSize,
		DuplicateWindow: s.cfg.DuplicateWindow.Std(),
	}, s.ledger, log)
	s.Require().NoError(err)

	eng, err := New(Options{
		Config:    s.cfg,
		Provider:  provider,
		Registry:  registry,
		Ranker:    r,
		Risk:      riskManager,
		Ledger:    s.ledger,
		Store:     tradeStore,
		Sink:      s.sink,
		Handler:   func(result CycleResult) { s.results <- result },
		Logger:    log,
		NewTicker: func(time.Duration) Ticker { return s.ticker },
	})
	s.Require().NoError(err)

	return eng
}

func (s *EngineTestSuite) waitResult() CycleResult {
	select {
	case result := <-s.results:
		return result
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for a cycle result")

		return CycleResult{}
	}
}

func (s *EngineTestSuite) TestNewRequiresCollaborators() {
	_, err := New(Options{Config: s.cfg, Logger: logger.NewNopLogger()})
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeEngineNotReady))
}

func (s *EngineTestSuite) TestStartStopLifecycle() {
	eng := s.newEngine(s.provider, nil)
	s.Equal(StateStopped, eng.State())

	s.Require().NoError(eng.Start(context.Background()))
	s.Equal(StateRunning, eng.State())

	err := eng.Start(context.Background())
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeEngineNotReady))

	eng.Stop()
	s.Equal(StateStopped, eng.State())

	// Stopping again is a no-op.
	eng.Stop()
	s.Equal(StateStopped, eng.State())
}

func (s *EngineTestSuite) TestRunOnceAdmitsTrade() {
	eng := s.newEngine(s.provider, nil)

	result, err := eng.RunOnce(context.Background())
	s.Require().NoError(err)

	s.Require().Len(result.Signals, 1)
	s.Equal("always_buy", result.Signals[0].Signal.StrategyID)

	s.Require().Len(result.Admitted, 1)
	s.Equal("BTCUSDT", result.Admitted[0].Symbol)
	s.InDelta(0.08, result.Admitted[0].Quantity, 1e-9)

	s.Equal(1, result.Performance.TotalTrades)
	s.Equal(1, result.Performance.OpenPositions)
	s.Equal(1, s.ledger.Len())

	handled := s.waitResult()
	s.Equal(result.Time, handled.Time)
}

func (s *EngineTestSuite) TestRunOnceRejectsDuplicate() {
	eng := s.newEngine(s.provider, nil)

	first, err := eng.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Require().Len(first.Admitted, 1)

	second, err := eng.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Len(second.Signals, 1)
	s.Empty(second.Admitted)
	s.Equal(1, s.ledger.Len())
}

func (s *EngineTestSuite) TestRunOncePersistsToStore() {
	tradeStore, err := store.NewDuckDBStore(":memory:", logger.NewNopLogger())
	s.Require().NoError(err)
	defer tradeStore.Close()

	eng := s.newEngine(s.provider, tradeStore)

	result, err := eng.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Require().Len(result.Admitted, 1)

	persisted, err := tradeStore.LoadAll()
	s.Require().NoError(err)
	s.Require().Len(persisted, 1)
	s.Equal(result.Admitted[0].ID, persisted[0].ID)
}

func (s *EngineTestSuite) TestFetchErrorAbortsCycleOnly() {
	s.provider.FailWith(errors.New(errors.ErrCodeFetchFailed, "exchange down"))

	eng := s.newEngine(s.provider, nil)
	s.Require().NoError(eng.Start(context.Background()))
	defer eng.Stop()

	s.ticker.tick()

	// The failed cycle produces no result but leaves the scheduler running.
	s.Eventually(func() bool { return s.sink.count() > 0 }, 2*time.Second, 10*time.Millisecond)
	s.Equal(StateRunning, eng.State())
	s.Empty(s.results)

	s.provider.FailWith(nil)
	s.ticker.tick()

	result := s.waitResult()
	s.Len(result.Admitted, 1)
}

func (s *EngineTestSuite) TestSkipOnOverlap() {
	blocking := &blockingProvider{
		inner:   s.provider,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	eng := s.newEngine(blocking, nil)
	s.Require().NoError(eng.Start(context.Background()))
	defer eng.Stop()

	// First firing enters the cycle and parks in the provider.
	s.ticker.tick()
	<-blocking.entered

	// Second firing arrives while the cycle is in flight and is dropped.
	s.ticker.tick()
	time.Sleep(50 * time.Millisecond)

	close(blocking.release)

	s.waitResult()

	// Only the first firing produced a cycle.
	select {
	case <-blocking.entered:
		s.FailNow("dropped firing still ran a cycle")
	case <-time.After(100 * time.Millisecond):
	}
	s.Empty(s.results)
}

func (s *EngineTestSuite) TestContextCancellationStopsLoop() {
	ctx, cancel := context.WithCancel(context.Background())

	eng := s.newEngine(s.provider, nil)
	s.Require().NoError(eng.Start(ctx))

	cancel()

	s.Eventually(func() bool { return eng.State() == StateStopped }, 2*time.Second, 10*time.Millisecond)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
