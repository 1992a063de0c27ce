package positions

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoerceFloat attempts to interpret an arbitrary decoded value as a finite
// number. The second return value reports whether coercion succeeded. Strings
// are parsed, numeric types are converted, everything else (including NaN and
// infinities) fails.
func CoerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return CoerceFloat(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		return CoerceFloat(string(n))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CoerceString renders an arbitrary decoded value as a string identifier.
// Numbers are formatted without a trailing fraction (tickets and account ids
// are integers on the wire but often decode as floats). Unsupported types
// yield the empty string.
func CoerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case int8, int16, int32, uint, uint8, uint16, uint32:
		if f, ok := CoerceFloat(s); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""
	default:
		return ""
	}
}

// Normalize coerces a batch of raw position records into canonical form.
// Record order is preserved. Individual malformed fields degrade to their
// documented defaults, the batch as a whole is never rejected:
//   - side: BUY/SELL (case-insensitive) map to Buy/Sell, anything else is Unknown
//   - volume: coerced number, exactly 0 on failure or absence
//   - open price, profit: coerced number, absent (nil) on failure or absence
//   - symbol: passed through when it is a string, absent otherwise
func Normalize(raw []RawPosition) []Position {
	out := make([]Position, 0, len(raw))
	for _, rp := range raw {
		out = append(out, normalizeOne(rp))
	}
	return out
}

func normalizeOne(rp RawPosition) Position {
	p := Position{
		Ticket: CoerceString(rp.Ticket),
		Side:   normalizeSide(rp.Side),
	}

	if sym, ok := rp.Symbol.(string); ok {
		p.Symbol = &sym
	}

	if vol, ok := CoerceFloat(rp.Volume); ok {
		p.Volume = vol
	}

	if price, ok := CoerceFloat(rp.OpenPrice); ok {
		p.OpenPrice = &price
	}

	if profit, ok := CoerceFloat(rp.Profit); ok {
		p.Profit = &profit
	}

	return p
}

func normalizeSide(v any) Side {
	s, ok := v.(string)
	if !ok {
		return SideUnknown
	}
	switch strings.ToUpper(s) {
	case "BUY":
		return SideBuy
	case "SELL":
		return SideSell
	default:
		return SideUnknown
	}
}
