// Package dto defines data transfer objects for the Yahoo Finance API responses.
package dto

// SearchResponse represents the JSON response from the /v1/finance/search endpoint.
type SearchResponse struct {
	Count  int `json:"count"`
	Quotes []struct {
		Exchange  string `json:"exchange"`
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		QuoteType string `json:"quoteType"`
		ExchDisp  string `json:"exchDisp"`
	} `json:"quotes"`
	Finance *struct {
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"finance,omitempty"`
}
