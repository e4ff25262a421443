package indicator

import "math"

// Volatility returns the standard deviation of simple returns over the last
// period returns. Histories with fewer than two prices have no returns and
// yield 0.
func Volatility(prices []float64, period int) float64 {
	if len(prices) < 2 || period <= 0 {
		return 0
	}

	returns := make([]float64, 0, len(prices)-1)

	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}

		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}

	if len(returns) == 0 {
		return 0
	}

	if len(returns) > period {
		returns = returns[len(returns)-period:]
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

	return math.Sqrt(variance)
}
