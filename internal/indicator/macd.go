package indicator

// MACD periods follow the conventional 12/26/9 configuration.
const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
)

// MACDResult holds the three components of the MACD indicator.
type MACDResult struct {
	// MACD is the difference between the fast and slow EMA.
	MACD float64
	// Signal is the EMA of the MACD line.
	Signal float64
	// Histogram is MACD minus Signal.
	Histogram float64
}

// MACD computes the Moving Average Convergence Divergence of the price
// history. Short histories degrade through the EMA fallback: with a single
// price all components are zero.
func MACD(prices []float64) MACDResult {
	if len(prices) == 0 {
		return MACDResult{MACD: 0, Signal: 0, Histogram: 0}
	}

	fast := emaSeries(prices, macdFastPeriod)
	slow := emaSeries(prices, macdSlowPeriod)

	macdLine := make([]float64, len(prices))
	for i := range prices {
		macdLine[i] = fast[i] - slow[i]
	}

	signalSeries := emaSeries(macdLine, macdSignalPeriod)

	macd := macdLine[len(macdLine)-1]
	signal := signalSeries[len(signalSeries)-1]

	return MACDResult{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	}
}
