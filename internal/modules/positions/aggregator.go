package positions

import "math"

// Aggregate computes the per-symbol volume totals and per-symbol break-even
// prices for one account's normalized positions.
//
// Every position with a present symbol contributes its (possibly zero) volume
// to that symbol's total. Positions without a symbol are excluded entirely.
//
// The break-even price of a symbol is the signed volume-weighted mean open
// price across that symbol's positions: Buy weighs +volume, Sell weighs
// -volume, Unknown sides weigh nothing. A position only enters the weighted
// sums when its sign is non-zero, its volume is non-zero and its open price is
// present and finite. When the net signed volume is exactly zero the symbol has
// no net exposure and its break-even is an explicit nil entry, not a price.
func Aggregate(positions []Position) (map[string]float64, map[string]*float64) {
	volumes := make(map[string]float64)

	type weighted struct {
		num float64 // Σ sign·volume·openPrice
		den float64 // Σ sign·volume
	}
	sums := make(map[string]*weighted)

	for _, p := range positions {
		if p.Symbol == nil {
			continue
		}
		sym := *p.Symbol
		volumes[sym] += p.Volume

		w, ok := sums[sym]
		if !ok {
			w = &weighted{}
			sums[sym] = w
		}

		sign := p.Side.Sign()
		if sign == 0 || p.Volume == 0 {
			continue
		}
		if p.OpenPrice == nil || math.IsNaN(*p.OpenPrice) || math.IsInf(*p.OpenPrice, 0) {
			continue
		}

		w.num += sign * p.Volume * *p.OpenPrice
		w.den += sign * p.Volume
	}

	breakEven := make(map[string]*float64, len(sums))
	for sym, w := range sums {
		if w.den != 0 {
			be := w.num / w.den
			breakEven[sym] = &be
		} else {
			breakEven[sym] = nil
		}
	}

	return volumes, breakEven
}
