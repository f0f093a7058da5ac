// Package yahoo provides a symbol lookup client for the Yahoo Finance search API.
package yahoo

import "time"

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query2.finance.yahoo.com"

// Config holds configuration for the Yahoo Finance search client.
type Config struct {
	BaseURL     string        // Base URL for the API (e.g., "https://query2.finance.yahoo.com")
	QuotesCount int           // Maximum number of quotes requested per search
	Timeout     time.Duration // HTTP request timeout
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		QuotesCount: 6,
		Timeout:     10 * time.Second,
	}
}
