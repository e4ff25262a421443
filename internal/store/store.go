// Package store persists the trade ledger beyond the process lifetime.
package store

import (
	"github.com/tradewind-lab/tradewind/internal/types"
)

// TradeStore is the optional durability collaborator of the ledger. The
// engine appends every admitted trade and records exits; on startup the
// ledger may be seeded from LoadAll.
type TradeStore interface {
	// Append persists a newly admitted trade.
	Append(trade types.Trade) error
	// UpdateExit records the exit fields of a previously appended trade.
	UpdateExit(id string, exit types.TradeExit) error
	// LoadAll returns every persisted trade ordered by entry time.
	LoadAll() ([]types.Trade, error)
	// Close releases the underlying resources.
	Close() error
}
