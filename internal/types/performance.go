package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceSnapshot aggregates the performance of the full trade ledger at
// one point in time. It is recomputed from scratch each cycle, never patched
// incrementally.
type PerformanceSnapshot struct {
	// Time is when the snapshot was computed.
	Time time.Time `yaml:"time" json:"time"`

	// TotalTrades is the total number of trades in the ledger, open and closed.
	TotalTrades int `yaml:"total_trades" json:"total_trades"`

	// OpenPositions is the number of trades with no exit recorded.
	OpenPositions int `yaml:"open_positions" json:"open_positions"`

	// TotalProfit is the cumulative realized profit over closed trades.
	TotalProfit float64 `yaml:"total_profit" json:"total_profit"`

	// WinRate is the fraction of closed trades with positive profit, in [0,1].
	WinRate float64 `yaml:"win_rate" json:"win_rate"`

	// SharpeRatio is the mean over standard deviation of closed-trade returns.
	// Zero when undefined (fewer than two closed trades or zero variance).
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
}

// WritePerformanceSnapshot writes a performance snapshot to a YAML file.
// This is the hand-off format consumed by the reporting subsystem.
func WritePerformanceSnapshot(path string, snapshot PerformanceSnapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal performance snapshot to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write performance snapshot to file: %w", err)
	}

	return nil
}

// ReadPerformanceSnapshot reads a performance snapshot from a YAML file.
func ReadPerformanceSnapshot(path string) (PerformanceSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PerformanceSnapshot{}, fmt.Errorf("failed to read performance snapshot file: %w", err)
	}

	var snapshot PerformanceSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return PerformanceSnapshot{}, fmt.Errorf("failed to unmarshal performance snapshot: %w", err)
	}

	return snapshot, nil
}
