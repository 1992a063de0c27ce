// Package positions contains the position domain model: normalization of raw
// EA-reported position records and per-symbol aggregation (volume totals and
// break-even prices).
package positions

// Side is the direction of an open position
type Side string

const (
	SideBuy     Side = "BUY"
	SideSell    Side = "SELL"
	SideUnknown Side = "UNKNOWN"
)

// Sign returns the directional weight of the side in the break-even formula:
// +1 for Buy, -1 for Sell, 0 for Unknown
func (s Side) Sign() float64 {
	switch s {
	case SideBuy:
		return 1
	case SideSell:
		return -1
	default:
		return 0
	}
}

// RawPosition is a single untrusted position record as posted by the terminal.
// Field types are deliberately loose: MT5 Expert Advisors differ in whether
// numeric fields arrive as JSON numbers or as strings, and any field may be
// absent. Normalization never rejects a record, malformed fields degrade to
// documented defaults.
type RawPosition struct {
	Ticket    any `json:"ticket" msgpack:"ticket"`
	Symbol    any `json:"symbol" msgpack:"symbol"`
	Side      any `json:"side" msgpack:"side"`
	Volume    any `json:"volume" msgpack:"volume"`
	OpenPrice any `json:"open_price" msgpack:"open_price"`
	Profit    any `json:"profit" msgpack:"profit"`
}

// Position is the canonical form of a position record after normalization.
// Volume is always a finite number (zero when the source value was missing or
// unparseable). OpenPrice and Profit are nil when missing or unparseable, a
// zero price is a legitimate value and is kept distinct from "absent".
type Position struct {
	Ticket    string   `json:"ticket,omitempty"`
	Symbol    *string  `json:"symbol"`
	Side      Side     `json:"side"`
	Volume    float64  `json:"volume"`
	OpenPrice *float64 `json:"open_price"`
	Profit    *float64 `json:"profit"`
}
