package models

import "github.com/shopspring/decimal"

// GiveawayCreate represents data for creating a new giveaway. Either an
// absolute end_time (milliseconds since epoch) or a duration is given; when
// both are zero the giveaway runs for an hour. Prizes come either as an
// array or in the flat single-prize shape the legacy client sends.
type GiveawayCreate struct {
	Prizes     []Prize `json:"prizes"`
	EndTime    int64   `json:"end_time"`
	DurationMS int64   `json:"duration_ms"`

	// Flat legacy fields, mapped into a one-element prize array.
	SkinName    string          `json:"skin_name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	RarityName  string          `json:"rarity_name"`
	RarityColor string          `json:"rarity_color"`
}

// PrizeList returns the prizes regardless of which body shape was sent.
func (c *GiveawayCreate) PrizeList() []Prize {
	if len(c.Prizes) > 0 {
		return c.Prizes
	}
	if c.SkinName != "" {
		return []Prize{{
			Name:        c.SkinName,
			Price:       c.Price,
			ImageURL:    c.ImageURL,
			RarityName:  c.RarityName,
			RarityColor: c.RarityColor,
		}}
	}
	return nil
}

// GiveawayPatch represents a partial update in the shape the legacy client
// sends: any of the three fields may be present. Participant arrays are
// reconciled against the stored membership set rather than overwritten.
type GiveawayPatch struct {
	ID           string          `json:"id" binding:"required"`
	Participants *[]string       `json:"participants,omitempty"`
	Winners      *[]string       `json:"winners,omitempty"`
	Status       *GiveawayStatus `json:"status,omitempty"`
}
