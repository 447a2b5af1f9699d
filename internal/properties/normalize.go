package properties

import (
	"math"
	"strings"
	"time"
)

// Normalize converts a raw county record into PropertyInfo. It is the only
// place that reads RawProperty fields.
func Normalize(raw RawProperty) PropertyInfo {
	info := PropertyInfo{
		ID:            str(raw.ID),
		Address:       str(raw.Address),
		City:          str(raw.City),
		State:         strings.ToUpper(str(raw.State)),
		Zip:           str(raw.Zip),
		County:        str(raw.County),
		Municipality:  str(raw.Municipality),
		PropertyClass: str(raw.PropertyClass),
		YearBuilt:     intOf(raw.YearBuilt),
	}

	if ca := raw.CountyAssessment; ca != nil {
		info.SquareFootage = intOf(ca.LivingSquareFeet)
		info.Owner = str(ca.OwnerName)
		info.LastSalePrice = floatOf(ca.SalePrice)
		info.LastSaleDate = normalizeDate(str(ca.SaleDate))
		info.AssessedValue = floatOf(ca.AssessedTotal)
		info.Block = str(ca.Block)
		info.Lot = str(ca.Lot)
		info.Qualifier = str(ca.Qualifier)
		info.Acreage = math.Round(floatOf(ca.Acreage)*1000) / 1000
		if info.YearBuilt == 0 {
			info.YearBuilt = intOf(ca.YearBuilt)
		}
	}

	if info.City == "" {
		info.City = info.Municipality
	}
	info.FullAddress = fullAddress(info)
	return info
}

func fullAddress(info PropertyInfo) string {
	parts := make([]string, 0, 3)
	if info.Address != "" {
		parts = append(parts, info.Address)
	}
	if info.City != "" {
		parts = append(parts, info.City)
	}
	stateZip := strings.TrimSpace(info.State + " " + info.Zip)
	if stateZip != "" {
		parts = append(parts, stateZip)
	}
	return strings.Join(parts, ", ")
}

var saleDateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", "20060102", time.RFC3339}

// normalizeDate rewrites known assessor date formats to YYYY-MM-DD and
// passes anything else through unchanged.
func normalizeDate(s string) string {
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func floatOf(n *looseNumber) float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

func intOf(n *looseNumber) int {
	return int(math.Round(floatOf(n)))
}
