package indicator

// RSI returns the Relative Strength Index over the last period price deltas,
// computed from simple (unsmoothed) average gain and loss.
//
// Degenerate cases are defined explicitly:
//   - fewer than period+1 prices: 50 (neutral)
//   - average loss is zero and average gain positive: 100 (perfect uptrend)
//   - both averages zero (flat history): 50
//
// The result is always within [0,100].
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50
	}

	gains := 0.0
	losses := 0.0

	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain > 0 {
			return 100
		}

		return 50
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
