package models

import "github.com/shopspring/decimal"

// Listing is a marketplace search hit normalized into the prize shape the
// Mini App consumes. Price is already converted to the display currency.
type Listing struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	RarityName  string          `json:"rarity_name"`
	RarityColor string          `json:"rarity_color"`
}

// SearchResponse is the wire shape of the marketplace search endpoint.
type SearchResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Data    []SearchItem `json:"data"`
}

// SearchItem is a raw marketplace result row. Price is in USD cents; the
// image URL may be absent, in which case it is synthesized from the class
// identifier.
type SearchItem struct {
	MarketHashName string `json:"market_hash_name"`
	Price          int64  `json:"price"`
	ClassID        string `json:"class"`
	InstanceID     string `json:"instance"`
	Rarity         string `json:"rarity,omitempty"`
	ImageURL       string `json:"image,omitempty"`
}
