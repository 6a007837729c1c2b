package export

import (
	"strings"

	"firestige.xyz/iexcap/internal/iex"
)

// SymbolFilter restricts output to a chosen set of symbols.
type SymbolFilter struct {
	symbols map[string]struct{}
}

// NewSymbolFilter builds a filter from symbols. Entries are upper-cased and
// trimmed; an empty list matches everything.
func NewSymbolFilter(symbols []string) *SymbolFilter {
	f := &SymbolFilter{}
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if f.symbols == nil {
			f.symbols = make(map[string]struct{}, len(symbols))
		}
		f.symbols[s] = struct{}{}
	}
	return f
}

// Match reports whether msg passes the filter. Feed-wide messages carry no
// symbol and always pass.
func (f *SymbolFilter) Match(msg iex.Message) bool {
	if len(f.symbols) == 0 {
		return true
	}
	sym, ok := SymbolOf(msg)
	if !ok {
		return true
	}
	_, ok = f.symbols[sym]
	return ok
}

// SymbolOf returns the symbol a message refers to. ok is false for messages
// that apply to the whole feed, such as system events.
func SymbolOf(msg iex.Message) (string, bool) {
	switch m := msg.(type) {
	case *iex.SecurityDirectory:
		return m.Symbol, true
	case *iex.SecurityEvent:
		return m.Symbol, true
	case *iex.TradingStatus:
		return m.Symbol, true
	case *iex.OperationalHaltStatus:
		return m.Symbol, true
	case *iex.ShortSalePriceTestStatus:
		return m.Symbol, true
	case *iex.QuoteUpdate:
		return m.Symbol, true
	case *iex.TradeReport:
		return m.Symbol, true
	case *iex.OfficialPrice:
		return m.Symbol, true
	case *iex.AuctionInformation:
		return m.Symbol, true
	case *iex.PriceLevelUpdate:
		return m.Symbol, true
	}
	return "", false
}
