// Package ranker scores candidate signals with a fixed weighted composite and
// keeps only the best few for admission control.
package ranker

import (
	"math"
	"sort"

	"github.com/tradewind-lab/tradewind/internal/indicator"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
	"go.uber.org/zap"
)

// DefaultTopN is the reference cut applied after sorting.
const DefaultTopN = 5

// Weights are the composite score weights. They must be non-negative and sum
// to one.
type Weights struct {
	Confidence float64 `yaml:"confidence" json:"confidence" validate:"gte=0"`
	RiskReward float64 `yaml:"risk_reward" json:"risk_reward" validate:"gte=0"`
	Volume     float64 `yaml:"volume" json:"volume" validate:"gte=0"`
	Trend      float64 `yaml:"trend" json:"trend" validate:"gte=0"`
}

// DefaultWeights returns the reference weight set.
func DefaultWeights() Weights {
	return Weights{
		Confidence: 0.4,
		RiskReward: 0.3,
		Volume:     0.2,
		Trend:      0.1,
	}
}

// Validate checks the weights are non-negative and sum to one.
func (w Weights) Validate() error {
	if w.Confidence < 0 || w.RiskReward < 0 || w.Volume < 0 || w.Trend < 0 {
		return errors.New(errors.ErrCodeInvalidWeights, "ranking weights must be non-negative")
	}

	sum := w.Confidence + w.RiskReward + w.Volume + w.Trend
	if math.Abs(sum-1) > 1e-9 {
		return errors.Newf(errors.ErrCodeInvalidWeights, "ranking weights must sum to 1, got %.4f", sum)
	}

	return nil
}

// Ranker turns a candidate set into an ordered, truncated ranking.
type Ranker struct {
	weights Weights
	topN    int
	log     *logger.Logger
}

// New creates a ranker. A non-positive topN falls back to DefaultTopN.
func New(weights Weights, topN int, log *logger.Logger) (*Ranker, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	if topN <= 0 {
		topN = DefaultTopN
	}

	return &Ranker{
		weights: weights,
		topN:    topN,
		log:     log,
	}, nil
}

// Rank scores every candidate against the snapshot it came from and returns
// the top slice sorted by non-increasing score. The sort is stable, so equal
// scores keep their evaluation order. Candidates with a zero risk denominator
// are rejected before scoring.
func (r *Ranker) Rank(snapshot types.MarketSnapshot, candidates []types.CandidateSignal) []types.RankedSignal {
	ranked := make([]types.RankedSignal, 0, len(candidates))
	indicators := make(map[string]indicator.Snapshot, len(candidates))

	for _, candidate := range candidates {
		riskReward, err := candidate.RiskReward()
		if err != nil {
			r.log.Warn("Rejecting unscorable candidate signal",
				zap.String("strategy", candidate.StrategyID),
				zap.String("symbol", candidate.Symbol),
				zap.Error(err),
			)

			continue
		}

		quote, ok := snapshot.Quote(candidate.Symbol)
		if !ok {
			// A candidate always originates from a snapshot quote, so this
			// only happens when callers mix snapshots.
			r.log.Warn("Rejecting candidate signal without a snapshot quote",
				zap.String("strategy", candidate.StrategyID),
				zap.String("symbol", candidate.Symbol),
			)

			continue
		}

		ind, cached := indicators[candidate.Symbol]
		if !cached {
			ind = indicator.Compute(quote)
			indicators[candidate.Symbol] = ind
		}

		score := r.weights.Confidence*candidate.Confidence +
			r.weights.RiskReward*riskReward +
			r.weights.Volume*volumeScore(quote) +
			r.weights.Trend*trendScore(candidate.Action, ind)

		ranked = append(ranked, types.RankedSignal{Signal: candidate, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > r.topN {
		ranked = ranked[:r.topN]
	}

	return ranked
}

// volumeScore maps current volume against its average into [0,1]. Twice the
// average volume or more scores 1, average volume scores 0.5 and missing
// volume data is treated as neutral.
func volumeScore(quote types.SymbolQuote) float64 {
	if quote.AverageVolume <= 0 {
		return 0.5
	}

	score := quote.Volume / quote.AverageVolume / 2
	if score > 1 {
		return 1
	}

	return score
}

// trendScore rewards signals that trade with the prevailing moving-average
// trend: 1 when aligned, 0 when against it, 0.5 when the trend is flat or
// unknown.
func trendScore(action types.Action, ind indicator.Snapshot) float64 {
	if ind.SMA10 == ind.SMA30 || ind.SMA30 == 0 {
		return 0.5
	}

	uptrend := ind.SMA10 > ind.SMA30
	if (action == types.ActionBuy) == uptrend {
		return 1
	}

	return 0
}
