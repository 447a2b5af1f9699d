package properties

import (
	"encoding/json"
	"testing"
)

const countyPayload = `[
  {
    "id": "0714-12-3",
    "address": "18 Maple Ave",
    "municipality": "Westfield",
    "state": "nj",
    "zip": "07090",
    "property_class": "2",
    "county_assessment": {
      "sq_ft": "1,842",
      "owner_name": "DOE, JANE",
      "sale_price": "$415,000",
      "sale_date": "06/15/2019",
      "assessed_total": 389100,
      "block": "714",
      "lot": "12",
      "qualifier": "C0003",
      "acreage": 0.1837,
      "year_built": "1926"
    }
  },
  { "id": "x", "address": "2 Elm St" }
]`

func TestNormalizeCountyRecord(t *testing.T) {
	var raw []RawProperty
	if err := json.Unmarshal([]byte(countyPayload), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}

	info := Normalize(raw[0])

	if info.SquareFootage != 1842 {
		t.Fatalf("expected 1842 sq ft, got %d", info.SquareFootage)
	}
	if info.LastSalePrice != 415000 || info.LastSaleDate != "2019-06-15" {
		t.Fatalf("unexpected sale data %v %q", info.LastSalePrice, info.LastSaleDate)
	}
	if info.Block != "714" || info.Lot != "12" || info.Qualifier != "C0003" {
		t.Fatalf("unexpected block/lot/qualifier %q/%q/%q", info.Block, info.Lot, info.Qualifier)
	}
	if info.Acreage != 0.184 {
		t.Fatalf("expected acreage rounded to 0.184, got %v", info.Acreage)
	}
	if info.YearBuilt != 1926 {
		t.Fatalf("expected year built from assessment, got %d", info.YearBuilt)
	}
	if info.City != "Westfield" || info.FullAddress != "18 Maple Ave, Westfield, NJ 07090" {
		t.Fatalf("unexpected address %q", info.FullAddress)
	}
}

func TestNormalizeWithoutAssessment(t *testing.T) {
	var raw []RawProperty
	if err := json.Unmarshal([]byte(countyPayload), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}

	info := Normalize(raw[1])
	if info.SquareFootage != 0 || info.Owner != "" {
		t.Fatalf("expected empty assessment fields, got %+v", info)
	}
	if info.FullAddress != "2 Elm St" {
		t.Fatalf("unexpected full address %q", info.FullAddress)
	}
}

func TestLooseNumberToleratesGarbage(t *testing.T) {
	var payload struct {
		A *looseNumber `json:"a"`
		B *looseNumber `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": "n/a", "b": null}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if floatOf(payload.A) != 0 || payload.B != nil {
		t.Fatalf("expected zero values, got %v %v", payload.A, payload.B)
	}
}
