// Package snapshots holds the latest position snapshot per account and builds
// the aggregated summary view served to the dashboard.
package snapshots

import (
	"time"

	"github.com/aristath/mt5-bridge/internal/modules/positions"
)

// IngestBatch is the payload posted by the terminal for one account. Top-level
// fields are loosely typed for the same reason position fields are: the EA side
// is not trusted to send well-formed values and a malformed field must degrade,
// not reject the batch.
type IngestBatch struct {
	Account   any                     `json:"account" msgpack:"account"`
	Profit    any                     `json:"profit" msgpack:"profit"`
	Positions []positions.RawPosition `json:"positions" msgpack:"positions"`
}

// AccountSnapshot is the complete state submitted for one account in a single
// ingest call. A snapshot wholly replaces any prior snapshot for the account
// and is treated as immutable once stored.
type AccountSnapshot struct {
	ID            string               `json:"id"`
	AccountID     string               `json:"account_id"`
	At            time.Time            `json:"at"`
	AccountProfit *float64             `json:"account_profit"`
	Volumes       map[string]float64   `json:"volumes"`
	Positions     []positions.Position `json:"positions"`
	BreakEven     map[string]*float64  `json:"break_even"`
}

// AccountSummary is the per-account block of the summary response
type AccountSummary struct {
	At        time.Time            `json:"at"`
	Profit    *float64             `json:"profit"`
	Volumes   map[string]float64   `json:"volumes"`
	Positions []positions.Position `json:"positions"`
	BreakEven map[string]*float64  `json:"break_even"`
}

// FleetStats aggregates across all tracked accounts
type FleetStats struct {
	AccountCount int      `json:"account_count"`
	TotalVolume  float64  `json:"total_volume"`
	MeanProfit   *float64 `json:"mean_profit"`
}

// Summary is the full dashboard response
type Summary struct {
	Accounts map[string]AccountSummary `json:"accounts"`
	Fleet    FleetStats                `json:"fleet"`
}
