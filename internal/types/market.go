package types

import (
	"sort"
	"time"
)

// SymbolQuote holds the market state of a single symbol inside a snapshot.
type SymbolQuote struct {
	// Symbol is the trading symbol (e.g., "BTCUSDT").
	Symbol string `yaml:"symbol" json:"symbol"`
	// CurrentPrice is the latest traded price.
	CurrentPrice float64 `yaml:"current_price" json:"current_price"`
	// HistoricalPrices is the ordered price history, oldest to newest.
	HistoricalPrices []float64 `yaml:"historical_prices" json:"historical_prices"`
	// Volume is the traded volume of the most recent bar.
	Volume float64 `yaml:"volume" json:"volume"`
	// AverageVolume is the mean volume over the history window. Zero when unknown.
	AverageVolume float64 `yaml:"average_volume" json:"average_volume"`
}

// MarketSnapshot is a point-in-time read of market data for all tracked symbols.
// It is immutable once produced for a cycle; symbols that could not be fetched
// are simply absent from Quotes.
type MarketSnapshot struct {
	// Time is when the snapshot was taken.
	Time time.Time `yaml:"time" json:"time"`
	// Quotes maps symbol to its quote.
	Quotes map[string]SymbolQuote `yaml:"quotes" json:"quotes"`
}

// Quote returns the quote for a symbol and whether it is present.
func (m MarketSnapshot) Quote(symbol string) (SymbolQuote, bool) {
	q, ok := m.Quotes[symbol]

	return q, ok
}

// Symbols returns the symbols present in the snapshot in lexical order.
func (m MarketSnapshot) Symbols() []string {
	symbols := make([]string, 0, len(m.Quotes))
	for symbol := range m.Quotes {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}
