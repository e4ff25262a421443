package marketdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
)

func TestStaticProviderGetSnapshot(t *testing.T) {
	provider := NewStaticProvider([]types.SymbolQuote{
		{Symbol: "BTCUSDT", CurrentPrice: 50000, HistoricalPrices: []float64{49000, 50000}},
		{Symbol: "ETHUSDT", CurrentPrice: 3000, HistoricalPrices: []float64{2900, 3000}},
	})

	snapshot, err := provider.GetSnapshot(context.Background(), []string{"BTCUSDT", "DOGEUSDT"})
	require.NoError(t, err)

	// Unknown symbols are absent, not errors.
	assert.Equal(t, []string{"BTCUSDT"}, snapshot.Symbols())

	quote, ok := snapshot.Quote("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 50000.0, quote.CurrentPrice)
}

func TestStaticProviderSetQuote(t *testing.T) {
	provider := NewStaticProvider(nil)
	provider.SetQuote(types.SymbolQuote{Symbol: "BTCUSDT", CurrentPrice: 51000})

	snapshot, err := provider.GetSnapshot(context.Background(), []string{"BTCUSDT"})
	require.NoError(t, err)

	quote, ok := snapshot.Quote("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 51000.0, quote.CurrentPrice)
}

func TestStaticProviderFailWith(t *testing.T) {
	provider := NewStaticProvider(nil)
	provider.FailWith(errors.New(errors.ErrCodeFetchFailed, "exchange down"))

	_, err := provider.GetSnapshot(context.Background(), []string{"BTCUSDT"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFetchFailed))

	provider.FailWith(nil)

	_, err = provider.GetSnapshot(context.Background(), []string{"BTCUSDT"})
	assert.NoError(t, err)
}

func TestStaticProviderCanceledContext(t *testing.T) {
	provider := NewStaticProvider(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.GetSnapshot(ctx, []string{"BTCUSDT"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFetchFailed))
}
