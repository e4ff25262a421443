// Package indicator implements technical indicator math as pure functions
// over price histories. Every function is deterministic, retains no state
// between calls, and degrades to a documented fallback value on short input
// instead of returning an error. Prices are ordered oldest to newest.
package indicator

// Default periods used by the engine's indicator snapshot.
const (
	DefaultRSIPeriod        = 14
	DefaultVolatilityPeriod = 20
	DefaultLevelPeriod      = 20
)

// SMA returns the arithmetic mean of the last period prices. When the history
// is shorter than period it returns the most recent price.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}

	if len(prices) < period || period <= 0 {
		return prices[len(prices)-1]
	}

	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}

	return sum / float64(period)
}

// EMA returns the exponential moving average of the prices, seeded with the
// SMA of the first period values. When the history is shorter than period it
// returns the most recent price.
func EMA(prices []float64, period int) float64 {
	series := emaSeries(prices, period)
	if len(series) == 0 {
		return 0
	}

	return series[len(series)-1]
}

// emaSeries computes the EMA at every index. Indices before the seed window
// carry the running SMA so callers always get a full-length series.
func emaSeries(prices []float64, period int) []float64 {
	if len(prices) == 0 {
		return nil
	}

	series := make([]float64, len(prices))

	if len(prices) < period || period <= 0 {
		for i := range prices {
			series[i] = prices[i]
		}

		return series
	}

	// Seed with the SMA of the first period values.
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += prices[i]
		series[i] = seed / float64(i+1)
	}

	ema := seed / float64(period)
	series[period-1] = ema

	multiplier := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		series[i] = ema
	}

	return series
}
