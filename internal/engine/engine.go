// Package engine drives the periodic trading cycle: fetch a market snapshot,
// evaluate strategies, rank candidates, admit trades and recompute
// performance.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tradewind-lab/tradewind/internal/config"
	"github.com/tradewind-lab/tradewind/internal/ledger"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/marketdata"
	"github.com/tradewind-lab/tradewind/internal/ranker"
	"github.com/tradewind-lab/tradewind/internal/risk"
	"github.com/tradewind-lab/tradewind/internal/store"
	"github.com/tradewind-lab/tradewind/internal/strategy"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
	"go.uber.org/zap"
)

// State is the scheduler lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "RUNNING"
	}

	return "STOPPED"
}

// CycleResult is the outcome of one trading cycle, handed to the reporting
// boundary.
type CycleResult struct {
	// Time is the snapshot time the cycle worked from.
	Time time.Time
	// Signals is the ranked signal set of the cycle.
	Signals []types.RankedSignal
	// Admitted are the trades committed this cycle, in rank order.
	Admitted []types.Trade
	// Performance is the ledger performance after admission.
	Performance types.PerformanceSnapshot
}

// ResultHandler consumes cycle results. It runs on the cycle goroutine and
// should hand off quickly.
type ResultHandler func(CycleResult)

// Options wires an engine together. Provider, Registry, Ranker, Risk, Ledger
// and Logger are required; the rest default to reasonable no-ops.
type Options struct {
	Config   config.Config
	Provider marketdata.Provider
	Registry *strategy.Registry
	Ranker   *ranker.Ranker
	Risk     *risk.Manager
	Ledger   *ledger.Ledger
	// Store, when set, receives every admitted trade for durability.
	Store store.TradeStore
	// Sink defaults to a log-backed sink.
	Sink NotificationSink
	// Handler, when set, receives every cycle result.
	Handler ResultHandler
	Logger  *logger.Logger
	// NewTicker defaults to a wall-clock ticker.
	NewTicker TickerFactory
}

// Engine is the trading cycle scheduler. Cycles never overlap: a firing that
// arrives while a cycle is still running is dropped, not queued.
type Engine struct {
	cfg      config.Config
	provider marketdata.Provider
	registry *strategy.Registry
	ranker   *ranker.Ranker
	risk     *risk.Manager
	ledger   *ledger.Ledger
	store    store.TradeStore
	sink     NotificationSink
	handler  ResultHandler
	logger   *logger.Logger

	newTicker     TickerFactory
	state         atomic.Int32
	cycleInFlight atomic.Bool
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// New validates the options and builds a stopped engine.
func New(opts Options) (*Engine, error) {
	if opts.Provider == nil || opts.Registry == nil || opts.Ranker == nil ||
		opts.Risk == nil || opts.Ledger == nil || opts.Logger == nil {
		return nil, errors.New(errors.ErrCodeEngineNotReady,
			"provider, registry, ranker, risk manager, ledger and logger are required")
	}

	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	sink := opts.Sink
	if sink == nil {
		sink = NewLogNotificationSink(opts.Logger)
	}

	newTicker := opts.NewTicker
	if newTicker == nil {
		newTicker = NewRealTicker
	}

	return &Engine{
		cfg:       opts.Config,
		provider:  opts.Provider,
		registry:  opts.Registry,
		ranker:    opts.Ranker,
		risk:      opts.Risk,
		ledger:    opts.Ledger,
		store:     opts.Store,
		sink:      sink,
		handler:   opts.Handler,
		logger:    opts.Logger,
		newTicker: newTicker,
	}, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Start transitions the engine to RUNNING and begins firing cycles on the
// configured period. It returns an error when already running.
func (e *Engine) Start(ctx context.Context) error {
	if !e.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return errors.New(errors.ErrCodeEngineNotReady, "engine already running")
	}

	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})

	ticker := e.newTicker(e.cfg.CyclePeriod.Std())

	e.logger.Info("Engine started",
		zap.Duration("cycle_period", e.cfg.CyclePeriod.Std()),
		zap.Strings("symbols", e.cfg.Symbols),
	)

	go e.loop(ctx, ticker)

	return nil
}

// Stop transitions the engine to STOPPED and cancels future firings. A cycle
// already in flight runs to completion on its own goroutine.
func (e *Engine) Stop() {
	if !e.state.CompareAndSwap(int32(StateRunning), int32(StateStopped)) {
		return
	}

	close(e.stopCh)
	<-e.doneCh

	e.logger.Info("Engine stopped")
}

func (e *Engine) loop(ctx context.Context, ticker Ticker) {
	defer close(e.doneCh)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ctx.Done():
			// Flip the state ourselves so a later Start works; Stop from the
			// outside becomes a no-op.
			e.state.CompareAndSwap(int32(StateRunning), int32(StateStopped))

			return
		case <-ticker.C():
			e.fire(ctx)
		}
	}
}

// fire launches one guarded cycle. The firing is dropped when the previous
// cycle has not finished.
func (e *Engine) fire(ctx context.Context) {
	if !e.cycleInFlight.CompareAndSwap(false, true) {
		e.logger.Warn("Previous cycle still in flight, skipping this firing")

		return
	}

	go func() {
		defer e.cycleInFlight.Store(false)

		if _, err := e.runCycle(ctx); err != nil {
			e.logger.Error("Trading cycle aborted", zap.Error(err))
			e.sink.Notify(fmt.Sprintf("trading cycle aborted: %v", err), LevelError)
		}
	}()
}

// RunOnce executes a single cycle synchronously. It is the replay/debug path
// and does not require the engine to be running.
func (e *Engine) RunOnce(ctx context.Context) (CycleResult, error) {
	if !e.cycleInFlight.CompareAndSwap(false, true) {
		return CycleResult{}, errors.New(errors.ErrCodeEngineNotReady, "a cycle is already in flight")
	}
	defer e.cycleInFlight.Store(false)

	return e.runCycle(ctx)
}

func (e *Engine) runCycle(ctx context.Context) (CycleResult, error) {
	snapshot, err := e.provider.GetSnapshot(ctx, e.cfg.Symbols)
	if err != nil {
		// A failed fetch aborts this cycle only; the next firing still runs.
		return CycleResult{}, errors.Wrap(errors.ErrCodeFetchFailed, "failed to fetch market snapshot", err)
	}

	candidates := e.registry.EvaluateAll(snapshot, e.cfg.ConfidenceThreshold)
	ranked := e.ranker.Rank(snapshot, candidates)

	admitted := make([]types.Trade, 0, len(ranked))

	for _, signal := range ranked {
		trade, rejection, err := e.risk.Admit(signal.Signal, snapshot.Time)
		if err != nil {
			e.logger.Warn("Failed to admit signal",
				zap.String("symbol", signal.Signal.Symbol),
				zap.String("strategy", signal.Signal.StrategyID),
				zap.Error(err),
			)

			continue
		}

		if rejection != nil {
			e.sink.Notify(fmt.Sprintf("signal for %s rejected: %s", signal.Signal.Symbol, rejection), LevelInfo)

			continue
		}

		admitted = append(admitted, trade)
		e.persist(trade)
		e.sink.Notify(fmt.Sprintf("opened %s %s at %.4f (size %.4f, strategy %s)",
			trade.Action, trade.Symbol, trade.EntryPrice, trade.Quantity, trade.StrategyID), LevelSuccess)
	}

	result := CycleResult{
		Time:        snapshot.Time,
		Signals:     ranked,
		Admitted:    admitted,
		Performance: e.ledger.Performance(time.Now()),
	}

	e.logger.Info("Trading cycle completed",
		zap.Int("symbols", len(snapshot.Quotes)),
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(ranked)),
		zap.Int("admitted", len(admitted)),
		zap.Int("total_trades", result.Performance.TotalTrades),
	)

	if e.handler != nil {
		e.handler(result)
	}

	return result, nil
}

// persist mirrors an admitted trade to the optional store. The in-memory
// ledger stays authoritative; a store failure is logged, not fatal.
func (e *Engine) persist(trade types.Trade) {
	if e.store == nil {
		return
	}

	if err := e.store.Append(trade); err != nil {
		e.logger.Error("Failed to persist trade",
			zap.String("id", trade.ID),
			zap.Error(err),
		)
	}
}
