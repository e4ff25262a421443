package strategy

import (
	"sync"

	"github.com/moznion/go-optional"
	"github.com/tradewind-lab/tradewind/internal/indicator"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
	"go.uber.org/zap"
)

// Definition binds a strategy to its effective parameter set.
type Definition struct {
	Strategy Strategy
	Params   Params
}

// Registry holds the ordered, fixed set of strategies evaluated each cycle.
// Registration happens once at startup; evaluation order is insertion order,
// which also decides ties downstream in the ranker.
type Registry struct {
	mu    sync.RWMutex
	order []string
	defs  map[string]Definition
	log   *logger.Logger
}

// NewRegistry creates an empty strategy registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		order: make([]string, 0),
		defs:  make(map[string]Definition),
		log:   log,
	}
}

// NewDefaultRegistry creates a registry holding the four reference strategies
// with their default parameters.
func NewDefaultRegistry(log *logger.Logger) (*Registry, error) {
	registry := NewRegistry(log)

	for _, s := range []Strategy{
		NewMeanReversion(),
		NewTrendFollowing(),
		NewBreakout(),
		NewMomentum(),
	} {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Register adds a strategy with its default parameters.
func (r *Registry) Register(s Strategy) error {
	return r.RegisterWithParams(s, s.DefaultParams())
}

// RegisterWithParams adds a strategy with an explicit parameter set.
func (r *Registry) RegisterWithParams(s Strategy, params Params) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := s.ID()
	if _, exists := r.defs[id]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyRegistered, "strategy with id %s already registered", id)
	}

	r.order = append(r.order, id)
	r.defs[id] = Definition{Strategy: s, Params: params.Clone()}

	return nil
}

// Get retrieves a strategy definition by id.
func (r *Registry) Get(id string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.defs[id]
	if !exists {
		return Definition{}, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy with id %s not found", id)
	}

	return def, nil
}

// IDs returns the registered strategy ids in insertion order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)

	return ids
}

// Definitions returns all definitions in insertion order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.defs[id])
	}

	return defs
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// EvaluateAll runs every registered strategy over every symbol in the
// snapshot and returns the candidates that pass validation and the confidence
// threshold. A failing evaluator is logged and skipped; it never aborts the
// other evaluators. Candidates are ordered strategy-major in insertion order
// so the first-registered strategy wins downstream ties.
func (r *Registry) EvaluateAll(snapshot types.MarketSnapshot, minConfidence float64) []types.CandidateSignal {
	symbols := snapshot.Symbols()

	// Indicators are pure, so one snapshot per symbol serves every strategy.
	indicators := make(map[string]indicator.Snapshot, len(symbols))
	for _, symbol := range symbols {
		indicators[symbol] = indicator.Compute(snapshot.Quotes[symbol])
	}

	candidates := make([]types.CandidateSignal, 0)

	for _, def := range r.Definitions() {
		for _, symbol := range symbols {
			quote := snapshot.Quotes[symbol]

			result, err := evaluateIsolated(def, quote, indicators[symbol])
			if err != nil {
				r.log.Warn("Strategy evaluation failed",
					zap.String("strategy", def.Strategy.ID()),
					zap.String("symbol", symbol),
					zap.Error(err),
				)

				continue
			}

			if result.IsNone() {
				continue
			}

			signal := result.Unwrap()

			if err := signal.Validate(); err != nil {
				r.log.Warn("Dropping malformed candidate signal",
					zap.String("strategy", def.Strategy.ID()),
					zap.String("symbol", symbol),
					zap.Error(err),
				)

				continue
			}

			if signal.Confidence < minConfidence {
				r.log.Debug("Dropping low-confidence candidate signal",
					zap.String("strategy", def.Strategy.ID()),
					zap.String("symbol", symbol),
					zap.Float64("confidence", signal.Confidence),
					zap.Float64("threshold", minConfidence),
				)

				continue
			}

			candidates = append(candidates, signal)
		}
	}

	return candidates
}

// evaluateIsolated converts evaluator panics into evaluation errors so one
// misbehaving strategy cannot abort the cycle.
func evaluateIsolated(def Definition, quote types.SymbolQuote, ind indicator.Snapshot) (result optional.Option[types.CandidateSignal], err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = optional.None[types.CandidateSignal]()
			err = errors.Newf(errors.ErrCodeEvaluationFailed, "strategy %s panicked: %v", def.Strategy.ID(), rec)
		}
	}()

	result, err = def.Strategy.Evaluate(quote, ind, def.Params)
	if err != nil {
		return optional.None[types.CandidateSignal](), errors.Wrapf(errors.ErrCodeEvaluationFailed, err,
			"strategy %s failed for symbol %s", def.Strategy.ID(), quote.Symbol)
	}

	return result, nil
}
