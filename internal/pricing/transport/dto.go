package transport

import "time"

// QuoteRequest is the query of the public price preview.
type QuoteRequest struct {
	SquareFootage int    `form:"sqft" validate:"min=0,max=100000"`
	Services      string `form:"services" validate:"required"`
}

// SetTierPriceRequest sets one cell of the tier table.
type SetTierPriceRequest struct {
	Price *float64 `json:"price" validate:"required,min=0"`
}

// TierPriceResponse is one row of the tier table.
type TierPriceResponse struct {
	Tier      string    `json:"tier"`
	ServiceID string    `json:"serviceId"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TierPriceListResponse wraps the tier table.
type TierPriceListResponse struct {
	Items []TierPriceResponse `json:"items"`
}
