package indicator

// Support returns the minimum price over the last period prices, the naive
// support level. An empty history yields 0.
func Support(prices []float64, period int) float64 {
	window := lastWindow(prices, period)
	if len(window) == 0 {
		return 0
	}

	low := window[0]
	for _, p := range window[1:] {
		if p < low {
			low = p
		}
	}

	return low
}

// Resistance returns the maximum price over the last period prices, the naive
// resistance level. An empty history yields 0.
func Resistance(prices []float64, period int) float64 {
	window := lastWindow(prices, period)
	if len(window) == 0 {
		return 0
	}

	high := window[0]
	for _, p := range window[1:] {
		if p > high {
			high = p
		}
	}

	return high
}

func lastWindow(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) <= period {
		return prices
	}

	return prices[len(prices)-period:]
}
