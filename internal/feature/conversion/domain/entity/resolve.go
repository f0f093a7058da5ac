package entity

import (
	"fmt"

	"fintools/internal/feature/conversion/domain"
)

// ResolveCandidates turns the provider answer for isin into a symbol.
// Only the first candidate is considered. The returned symbol is always usable as a map value:
// on failure it is an error symbol and err explains why.
func ResolveCandidates(isin string, candidates []Candidate) (symbol string, err error) {
	if len(candidates) == 0 {
		return ErrorSymbol(isin), fmt.Errorf("%w: %s", domain.ErrNoCandidates, isin)
	}
	first := candidates[0]
	exchange, err := NormalizeExchange(first.Exchange)
	if err != nil {
		return UnmappedSymbol(first.Ticker), err
	}
	return NewSymbol(exchange, first.Ticker), nil
}
