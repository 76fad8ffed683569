package models

// Brand and Category are reference data fetched once per session and used to
// populate the filter UI.

type Brand struct {
	ID          FlexString `json:"id"`
	BrandNameAr string     `json:"brand_name_ar"`
	BrandNameEn string     `json:"brand_name_en"`
}

type Category struct {
	ID     FlexString `json:"id"`
	NameAr string     `json:"name_ar"`
	NameEn string     `json:"name_en"`
}

// SellingPoint is a physical store location with its own inventory. Orders
// are scoped to exactly one.
type SellingPoint struct {
	ID      string `json:"id"`
	NameAr  string `json:"name_ar,omitempty"`
	NameEn  string `json:"name_en,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

type APISellingPoint struct {
	ID      FlexString `json:"id"`
	NameAr  string     `json:"name_ar"`
	NameEn  string     `json:"name_en"`
	City    string     `json:"city"`
	Country string     `json:"country"`
}

// NormalizeSellingPoints drops entries without an id and stringifies the
// rest.
func NormalizeSellingPoints(raw []APISellingPoint) []SellingPoint {
	points := make([]SellingPoint, 0, len(raw))

	for _, p := range raw {
		if p.ID.String() == "" {
			continue
		}

		points = append(points, SellingPoint{
			ID:      p.ID.String(),
			NameAr:  p.NameAr,
			NameEn:  p.NameEn,
			City:    p.City,
			Country: p.Country,
		})
	}

	return points
}
