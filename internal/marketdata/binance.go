package marketdata

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
	"go.uber.org/zap"
)

// Reference kline settings. Fifty one-minute bars cover the longest moving
// average window with room to spare.
const (
	DefaultInterval    = "1m"
	DefaultHistoryBars = 50
)

// BinanceProvider builds snapshots from Binance spot klines. Public kline
// endpoints need no API credentials.
type BinanceProvider struct {
	client      *binance.Client
	interval    string
	historyBars int
	logger      *logger.Logger
}

// NewBinanceProvider creates a provider using the reference kline settings.
func NewBinanceProvider(log *logger.Logger) *BinanceProvider {
	return &BinanceProvider{
		client:      binance.NewClient("", ""),
		interval:    DefaultInterval,
		historyBars: DefaultHistoryBars,
		logger:      log,
	}
}

// GetSnapshot implements Provider. Symbols that fail to fetch are logged and
// left out of the snapshot; the call only errors when no symbol could be
// fetched at all.
func (p *BinanceProvider) GetSnapshot(ctx context.Context, symbols []string) (types.MarketSnapshot, error) {
	snapshot := types.MarketSnapshot{
		Time:   time.Now(),
		Quotes: make(map[string]types.SymbolQuote, len(symbols)),
	}

	var lastErr error

	for _, symbol := range symbols {
		quote, err := p.fetchQuote(ctx, symbol)
		if err != nil {
			lastErr = err
			p.logger.Warn("Failed to fetch symbol, leaving it out of the snapshot",
				zap.String("symbol", symbol),
				zap.Error(err),
			)

			continue
		}

		snapshot.Quotes[symbol] = quote
	}

	if len(symbols) > 0 && len(snapshot.Quotes) == 0 {
		return types.MarketSnapshot{}, errors.Wrap(errors.ErrCodeFetchFailed,
			"no symbol could be fetched", lastErr)
	}

	return snapshot, nil
}

func (p *BinanceProvider) fetchQuote(ctx context.Context, symbol string) (types.SymbolQuote, error) {
	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(p.interval).
		Limit(p.historyBars).
		Do(ctx)
	if err != nil {
		return types.SymbolQuote{}, errors.Wrapf(errors.ErrCodeFetchFailed, err,
			"failed to fetch klines for %s", symbol)
	}

	if len(klines) == 0 {
		return types.SymbolQuote{}, errors.Newf(errors.ErrCodeSymbolUnavailable,
			"no klines returned for %s", symbol)
	}

	prices := make([]float64, 0, len(klines))
	totalVolume := 0.0
	lastVolume := 0.0

	for _, k := range klines {
		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return types.SymbolQuote{}, errors.Wrapf(errors.ErrCodeFetchFailed, err,
				"malformed close price for %s", symbol)
		}

		volume, _ := strconv.ParseFloat(k.Volume, 64)

		prices = append(prices, closePrice)
		totalVolume += volume
		lastVolume = volume
	}

	return types.SymbolQuote{
		Symbol:           symbol,
		CurrentPrice:     prices[len(prices)-1],
		HistoricalPrices: prices,
		Volume:           lastVolume,
		AverageVolume:    totalVolume / float64(len(klines)),
	}, nil
}

var _ Provider = (*BinanceProvider)(nil)
