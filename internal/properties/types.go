package properties

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// SearchRequest represents the query parameters from the frontend.
type SearchRequest struct {
	Address string `form:"address" binding:"required,min=3"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=25"`
}

// PropertyInfo is the normalised property record used everywhere past the
// lookup boundary.
type PropertyInfo struct {
	ID            string  `json:"id"`
	Address       string  `json:"address"`
	City          string  `json:"city,omitempty"`
	State         string  `json:"state,omitempty"`
	Zip           string  `json:"zip,omitempty"`
	County        string  `json:"county,omitempty"`
	Municipality  string  `json:"municipality,omitempty"`
	FullAddress   string  `json:"fullAddress"`
	SquareFootage int     `json:"squareFootage"`
	YearBuilt     int     `json:"yearBuilt,omitempty"`
	PropertyClass string  `json:"propertyClass,omitempty"`
	Owner         string  `json:"owner,omitempty"`
	LastSalePrice float64 `json:"lastSalePrice,omitempty"`
	LastSaleDate  string  `json:"lastSaleDate,omitempty"`
	AssessedValue float64 `json:"assessedValue,omitempty"`
	Block         string  `json:"block,omitempty"`
	Lot           string  `json:"lot,omitempty"`
	Qualifier     string  `json:"qualifier,omitempty"`
	Acreage       float64 `json:"acreage,omitempty"`
}

// RawProperty mirrors the records returned by the county property API.
// Every nested field is optional; only Normalize reads it.
type RawProperty struct {
	ID               *string              `json:"id"`
	Address          *string              `json:"address"`
	City             *string              `json:"city"`
	State            *string              `json:"state"`
	Zip              *string              `json:"zip"`
	County           *string              `json:"county"`
	Municipality     *string              `json:"municipality"`
	PropertyClass    *string              `json:"property_class"`
	YearBuilt        *looseNumber         `json:"year_built"`
	CountyAssessment *RawCountyAssessment `json:"county_assessment"`
}

// RawCountyAssessment is the nested assessor record.
type RawCountyAssessment struct {
	LivingSquareFeet    *looseNumber `json:"sq_ft"`
	BuildingDescription *string      `json:"building_description"`
	OwnerName           *string      `json:"owner_name"`
	SalePrice           *looseNumber `json:"sale_price"`
	SaleDate            *string      `json:"sale_date"`
	AssessedTotal       *looseNumber `json:"assessed_total"`
	Block               *string      `json:"block"`
	Lot                 *string      `json:"lot"`
	Qualifier           *string      `json:"qualifier"`
	Acreage             *looseNumber `json:"acreage"`
	YearBuilt           *looseNumber `json:"year_built"`
}

// looseNumber accepts 1850, 1850.5, "1,850" and "$415,000" alike.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil
		}
		*n = looseNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = looseNumber(f)
	}
	return nil
}
