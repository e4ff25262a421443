package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
)

// StaticProvider serves snapshots from an in-memory quote set. It backs tests
// and dry runs where no exchange connectivity is wanted.
type StaticProvider struct {
	mu     sync.RWMutex
	quotes map[string]types.SymbolQuote
	err    error
}

// NewStaticProvider creates a provider serving the given quotes.
func NewStaticProvider(quotes []types.SymbolQuote) *StaticProvider {
	p := &StaticProvider{
		quotes: make(map[string]types.SymbolQuote, len(quotes)),
	}

	for _, quote := range quotes {
		p.quotes[quote.Symbol] = quote
	}

	return p
}

// SetQuote adds or replaces a quote.
func (p *StaticProvider) SetQuote(quote types.SymbolQuote) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.quotes[quote.Symbol] = quote
}

// FailWith makes every subsequent GetSnapshot return err. Passing nil
// restores normal operation.
func (p *StaticProvider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.err = err
}

// GetSnapshot implements Provider. Requested symbols without a stored quote
// are simply absent from the snapshot.
func (p *StaticProvider) GetSnapshot(ctx context.Context, symbols []string) (types.MarketSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return types.MarketSnapshot{}, errors.Wrap(errors.ErrCodeFetchFailed, "snapshot fetch canceled", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.err != nil {
		return types.MarketSnapshot{}, p.err
	}

	snapshot := types.MarketSnapshot{
		Time:   time.Now(),
		Quotes: make(map[string]types.SymbolQuote, len(symbols)),
	}

	for _, symbol := range symbols {
		if quote, ok := p.quotes[symbol]; ok {
			snapshot.Quotes[symbol] = quote
		}
	}

	return snapshot, nil
}

var _ Provider = (*StaticProvider)(nil)
