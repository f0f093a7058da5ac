package entity

import (
	"cmp"
	"slices"
	"strings"
)

// errorMarker is the substring that flags a symbol as a failed resolution.
const errorMarker = "error"

// Candidate is one (exchange code, ticker) pair returned by a lookup provider.
type Candidate struct {
	Exchange string // Provider exchange code (e.g. "NMS")
	Ticker   string // Provider ticker (e.g. "BRK-B")
}

// SymbolMap maps an ISIN to its resolved symbol ("EXCHANGE:TICKER" or an error symbol).
type SymbolMap map[string]string

// CacheEntry is the persisted form of one SymbolMap entry.
type CacheEntry struct {
	ISIN   string `json:"isin"`
	Symbol string `json:"symbol"`
}

// NewSymbol combines an exchange name and a ticker into "EXCHANGE:TICKER".
func NewSymbol(exchange, ticker string) string {
	return exchange + ":" + NormalizeTicker(ticker)
}

// NormalizeTicker replaces share-class dashes with dots ("BRK-B" -> "BRK.B").
func NormalizeTicker(ticker string) string {
	return strings.ReplaceAll(ticker, "-", ".")
}

// ErrorSymbol is the symbol returned for an ISIN whose lookup failed.
func ErrorSymbol(isin string) string {
	return isin + errorMarker
}

// UnmappedSymbol is the symbol returned when the exchange code of a candidate is unknown.
func UnmappedSymbol(ticker string) string {
	return NewSymbol(errorMarker, ticker)
}

// IsErrorSymbol reports whether symbol marks a failed resolution.
func IsErrorSymbol(symbol string) bool {
	return strings.Contains(symbol, errorMarker)
}

// WithoutErrors returns a copy of m without error symbols.
func (m SymbolMap) WithoutErrors() SymbolMap {
	out := make(SymbolMap, len(m))
	for isin, symbol := range m {
		if IsErrorSymbol(symbol) {
			continue
		}
		out[isin] = symbol
	}
	return out
}

// Errors counts the error symbols in m.
func (m SymbolMap) Errors() int {
	n := 0
	for _, symbol := range m {
		if IsErrorSymbol(symbol) {
			n++
		}
	}
	return n
}

// Entries returns m as cache entries sorted by symbol, then by ISIN.
func (m SymbolMap) Entries() []CacheEntry {
	out := make([]CacheEntry, 0, len(m))
	for isin, symbol := range m {
		out = append(out, CacheEntry{ISIN: isin, Symbol: symbol})
	}
	slices.SortFunc(out, func(a, b CacheEntry) int {
		if c := cmp.Compare(a.Symbol, b.Symbol); c != 0 {
			return c
		}
		return cmp.Compare(a.ISIN, b.ISIN)
	})
	return out
}

// FromEntries builds a SymbolMap from persisted entries. Later entries win on duplicate ISINs.
func FromEntries(entries []CacheEntry) SymbolMap {
	out := make(SymbolMap, len(entries))
	for _, e := range entries {
		out[e.ISIN] = e.Symbol
	}
	return out
}
