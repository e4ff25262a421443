// Package marketdata supplies point-in-time market snapshots to the engine.
package marketdata

import (
	"context"

	"github.com/tradewind-lab/tradewind/internal/types"
)

// Provider fetches one snapshot per cycle. Implementations must tolerate
// partial unavailability: a symbol that cannot be fetched is absent from the
// snapshot, not a fatal error. An error return means the snapshot as a whole
// is unusable and the cycle should be aborted.
type Provider interface {
	GetSnapshot(ctx context.Context, symbols []string) (types.MarketSnapshot, error)
}
