package contracts

import "time"

// Ticker is one tracked index constituent
type Ticker struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"` // market-cap weight, renormalized
}

// Universe represents the tracked constituents passed from S1 to S2
// ⭐ SSOT: S1 → S2 추적 종목 전달
type Universe struct {
	Date    time.Time `json:"date"`
	Tickers []Ticker  `json:"tickers"`
}

// Contains checks if a symbol is in the universe
func (u *Universe) Contains(symbol string) bool {
	_, ok := u.Weight(symbol)
	return ok
}

// Weight returns the market-cap weight of a symbol
func (u *Universe) Weight(symbol string) (float64, bool) {
	for _, t := range u.Tickers {
		if t.Symbol == symbol {
			return t.Weight, true
		}
	}
	return 0, false
}

// Symbols returns tracked symbols in universe order
func (u *Universe) Symbols() []string {
	symbols := make([]string, len(u.Tickers))
	for i, t := range u.Tickers {
		symbols[i] = t.Symbol
	}
	return symbols
}

// TotalWeight sums all weights (1.0 after renormalization)
func (u *Universe) TotalWeight() float64 {
	total := 0.0
	for _, t := range u.Tickers {
		total += t.Weight
	}
	return total
}

// Count returns the number of tracked tickers
func (u *Universe) Count() int {
	return len(u.Tickers)
}
