package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 4.0, SMA(prices, 3), 1e-9)
	assert.InDelta(t, 3.0, SMA(prices, 5), 1e-9)
}

func TestSMAShortHistoryReturnsLastPrice(t *testing.T) {
	prices := []float64{10, 20, 30}

	// Fewer points than the period degrade to the most recent price.
	assert.Equal(t, 30.0, SMA(prices, 5))
	assert.Equal(t, 30.0, SMA(prices, 100))
}

func TestSMAEmpty(t *testing.T) {
	assert.Zero(t, SMA(nil, 10))
}

func TestEMAShortHistoryReturnsLastPrice(t *testing.T) {
	prices := []float64{10, 20, 30}

	assert.Equal(t, 30.0, EMA(prices, 5))
}

func TestEMAConstantSeries(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 42.0
	}

	assert.InDelta(t, 42.0, EMA(prices, 12), 1e-9)
}

func TestEMATracksTrend(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 100.0 + float64(i)
	}

	ema := EMA(prices, 10)
	// EMA lags a rising series but stays below the last price.
	assert.Greater(t, ema, prices[30])
	assert.Less(t, ema, prices[49])
}

func TestRSIShortHistoryIsNeutral(t *testing.T) {
	prices := []float64{1, 2, 3}

	assert.Equal(t, 50.0, RSI(prices, 14))
}

func TestRSIPureUptrend(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100.0 + float64(i)
	}

	assert.Equal(t, 100.0, RSI(prices, 14))
}

func TestRSIFlatHistoryIsNeutral(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100.0
	}

	assert.Equal(t, 50.0, RSI(prices, 14))
}

func TestRSIWithinBounds(t *testing.T) {
	// Alternating gains and losses of varying size.
	prices := []float64{100, 102, 99, 103, 98, 104, 97, 105, 96, 106, 95, 107, 94, 108, 93, 109}

	for period := 1; period <= len(prices); period++ {
		rsi := RSI(prices, period)
		assert.GreaterOrEqual(t, rsi, 0.0, "period %d", period)
		assert.LessOrEqual(t, rsi, 100.0, "period %d", period)
	}
}

func TestRSIDowntrendBelowNeutral(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100.0 - float64(i)
	}

	assert.Less(t, RSI(prices, 14), 50.0)
}

func TestMACDSinglePriceIsZero(t *testing.T) {
	result := MACD([]float64{100})

	assert.Zero(t, result.MACD)
	assert.Zero(t, result.Signal)
	assert.Zero(t, result.Histogram)
}

func TestMACDUptrendPositive(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100.0 + float64(i)
	}

	result := MACD(prices)
	// Fast EMA sits above slow EMA in a sustained uptrend.
	assert.Greater(t, result.MACD, 0.0)
}

func TestMACDDeterministic(t *testing.T) {
	prices := []float64{100, 101, 99, 102, 98, 103, 97, 104}

	first := MACD(prices)
	second := MACD(prices)
	assert.Equal(t, first, second)
}

func TestVolatilityFlatSeriesIsZero(t *testing.T) {
	prices := []float64{100, 100, 100, 100}

	assert.Zero(t, Volatility(prices, 20))
}

func TestVolatilityShortHistoryIsZero(t *testing.T) {
	assert.Zero(t, Volatility([]float64{100}, 20))
	assert.Zero(t, Volatility(nil, 20))
}

func TestVolatilityPositiveForMovingSeries(t *testing.T) {
	prices := []float64{100, 105, 95, 110, 90}

	assert.Greater(t, Volatility(prices, 20), 0.0)
}

func TestSupportResistance(t *testing.T) {
	prices := []float64{5, 1, 9, 3, 7}

	assert.Equal(t, 1.0, Support(prices, 20))
	assert.Equal(t, 9.0, Resistance(prices, 20))

	// Window restricts to the most recent prices.
	assert.Equal(t, 3.0, Support(prices, 2))
	assert.Equal(t, 7.0, Resistance(prices, 2))
}

func TestSupportResistanceEmpty(t *testing.T) {
	assert.Zero(t, Support(nil, 20))
	assert.Zero(t, Resistance(nil, 20))
}
