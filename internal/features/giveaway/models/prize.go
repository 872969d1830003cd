package models

import "github.com/shopspring/decimal"

// Prize представляет скин, разыгрываемый в гиве. Все поля фиксируются в
// момент создания гива и больше не меняются.
type Prize struct {
	Name        string          `json:"name" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	RarityName  string          `json:"rarity_name"`
	RarityColor string          `json:"rarity_color"`
}
