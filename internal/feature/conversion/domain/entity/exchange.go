package entity

import (
	"fmt"

	"fintools/internal/feature/conversion/domain"
)

// exchangeNames maps provider exchange codes to canonical exchange names.
var exchangeNames = map[string]string{
	"BTS": "AMEX",
	"NCM": "NASDAQ",
	"NMS": "NASDAQ",
	"NGM": "NASDAQ",
	"NYQ": "NYSE",
}

// NormalizeExchange translates a provider exchange code (e.g. "NMS") to its canonical name ("NASDAQ").
func NormalizeExchange(code string) (string, error) {
	name, ok := exchangeNames[code]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownExchange, code)
	}
	return name, nil
}
