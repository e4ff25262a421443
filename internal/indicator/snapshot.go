package indicator

import (
	"github.com/tradewind-lab/tradewind/internal/types"
)

// Snapshot bundles every indicator the strategies consume, computed once per
// symbol per cycle. Strategies recomputing indicators independently would get
// identical values since all functions in this package are pure.
type Snapshot struct {
	SMA10      float64
	SMA20      float64
	SMA30      float64
	RSI        float64
	MACD       MACDResult
	Volatility float64
	Support    float64
	Resistance float64
}

// Compute derives the indicator snapshot for one symbol quote. An empty price
// history falls back to the current price as a single-point series so every
// indicator still degrades to its documented default.
func Compute(quote types.SymbolQuote) Snapshot {
	prices := quote.HistoricalPrices
	if len(prices) == 0 {
		prices = []float64{quote.CurrentPrice}
	}

	return Snapshot{
		SMA10:      SMA(prices, 10),
		SMA20:      SMA(prices, 20),
		SMA30:      SMA(prices, 30),
		RSI:        RSI(prices, DefaultRSIPeriod),
		MACD:       MACD(prices),
		Volatility: Volatility(prices, DefaultVolatilityPeriod),
		Support:    Support(prices, DefaultLevelPeriod),
		Resistance: Resistance(prices, DefaultLevelPeriod),
	}
}
