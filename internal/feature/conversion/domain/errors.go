// Package domain defines domain-level errors for the conversion feature.
package domain

import "errors"

// Domain errors for symbol lookups.
// Neither error aborts a batch; the affected identifier resolves to an error symbol instead.
var (
	// ErrNoCandidates indicates that the provider returned no candidate for an ISIN.
	ErrNoCandidates = errors.New("no candidate returned for isin")

	// ErrUnknownExchange indicates that the provider's exchange code is not in the exchange table.
	ErrUnknownExchange = errors.New("exchange code is not mapped")
)
