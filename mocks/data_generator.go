package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/tradewind-lab/tradewind/internal/types"
)

// DataGenerator produces realistic price histories for testing and
// benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a generator with the given seed. Use a fixed seed
// for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how a price history is generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "BTCUSDT").
	Symbol string
	// Count is the number of price points to generate.
	Count int
	// InitialPrice is the starting price.
	InitialPrice float64
	// Volatility controls per-bar price movement (0.002 = 0.2% per bar).
	Volatility float64
	// Trend is the total drift over the series (-0.1 to 0.1 for bearish to
	// bullish).
	Trend float64
	// VolumeBase is the average volume per bar.
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0).
	VolumeVariance float64
}

// DefaultConfig returns a neutral random-walk configuration covering the
// longest indicator window.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		Count:          50,
		InitialPrice:   100.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// GeneratePrices creates a price series following geometric Brownian motion.
func (g *DataGenerator) GeneratePrices(config GeneratorConfig) []float64 {
	prices := make([]float64, config.Count)
	currentPrice := config.InitialPrice

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a normally distributed step.
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		next := currentPrice * (1 + priceChange + drift)
		if next <= 0 {
			next = currentPrice * 0.99
		}

		prices[i] = roundToDecimals(next, 4)
		currentPrice = next
	}

	return prices
}

// GenerateQuote creates a full symbol quote: generated history, last price as
// current, randomized last-bar volume around the base.
func (g *DataGenerator) GenerateQuote(config GeneratorConfig) types.SymbolQuote {
	prices := g.GeneratePrices(config)

	volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
	volume := config.VolumeBase * volumeVariation
	if volume < 0 {
		volume = config.VolumeBase * 0.1
	}

	return types.SymbolQuote{
		Symbol:           config.Symbol,
		CurrentPrice:     prices[len(prices)-1],
		HistoricalPrices: prices,
		Volume:           roundToDecimals(volume, 2),
		AverageVolume:    config.VolumeBase,
	}
}

// GenerateSnapshot creates a snapshot covering multiple symbols, varying the
// initial price and volatility slightly per symbol.
func (g *DataGenerator) GenerateSnapshot(symbols []string, baseConfig GeneratorConfig, at time.Time) types.MarketSnapshot {
	snapshot := types.MarketSnapshot{
		Time:   at,
		Quotes: make(map[string]types.SymbolQuote, len(symbols)),
	}

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		snapshot.Quotes[symbol] = g.GenerateQuote(config)
	}

	return snapshot
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
