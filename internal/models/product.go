package models

import (
	"encoding/json"
	"strings"
)

// SellingPointAvailability is one line of a product's per-store stock
// breakdown.
type SellingPointAvailability struct {
	SellingPointID string `json:"selling_point_id"`
	NameAr         string `json:"name_ar,omitempty"`
	NameEn         string `json:"name_en,omitempty"`
	TotalAvailable int    `json:"total_available"`
}

// Product is the client-side projection used by every screen. It is rebuilt
// from the raw API shape on each fetch and never mutated locally.
type Product struct {
	ID                         string                     `json:"id"`
	Name                       string                     `json:"name"`
	Brand                      string                     `json:"brand"`
	BrandID                    string                     `json:"brand_id,omitempty"`
	Category                   string                     `json:"category"`
	Price                      float64                    `json:"price"`
	Image                      string                     `json:"image,omitempty"`
	Description                string                     `json:"description,omitempty"`
	Ingredients                []string                   `json:"ingredients,omitempty"`
	TotalAvailable             *int                       `json:"total_available,omitempty"`
	AvailabilityBySellingPoint []SellingPointAvailability `json:"availability_by_selling_point,omitempty"`
}

type apiCategory struct {
	ID     FlexString `json:"id"`
	Name   string     `json:"name"`
	NameAr string     `json:"name_ar"`
	NameEn string     `json:"name_en"`
}

type apiStock struct {
	Quantity *FlexInt `json:"quantity"`
}

type APIAvailability struct {
	SellingPoint   FlexString `json:"selling_point"`
	NameAr         string     `json:"name_ar"`
	NameEn         string     `json:"name_en"`
	TotalAvailable *FlexInt   `json:"totalAvailable"`
	Stockes        []apiStock `json:"stockes"`
}

// APIProduct is the raw product document as the commerce API returns it.
// Several fields exist in more than one spelling depending on which backend
// generation produced the row.
type APIProduct struct {
	ID             FlexString        `json:"id"`
	Name           string            `json:"name"`
	NameAr         string            `json:"name_ar"`
	NameEn         string            `json:"name_en"`
	Price          FlexFloat         `json:"price"`
	Description    string            `json:"description"`
	DescriptionAr  string            `json:"description_ar"`
	DescriptionEn  string            `json:"description_en"`
	Images         json.RawMessage   `json:"images"`
	Category       json.RawMessage   `json:"category"`
	Brand          FlexString        `json:"brand"`
	BrandID        FlexString        `json:"brand_id"`
	BrandNameAr    string            `json:"brand_name_ar"`
	BrandNameEn    string            `json:"brand_name_en"`
	Ingredients    []string          `json:"ingredients"`
	TotalAvailable *FlexInt          `json:"total_available"`
	Availability   []APIAvailability `json:"availability_by_selling_point"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}

func (p *APIProduct) categoryName() string {
	raw := rawBytes(p.Category)
	if len(raw) == 0 {
		return ""
	}

	var obj apiCategory
	if err := json.Unmarshal(raw, &obj); err == nil {
		if name := firstNonEmpty(obj.NameAr, obj.Name, obj.NameEn); name != "" {
			return name
		}
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	return ""
}

func rawBytes(raw json.RawMessage) []byte {
	b := []byte(raw)
	if string(b) == "null" {
		return nil
	}

	return b
}

// firstImage handles the two encodings the API uses: a JSON array of file
// names, or that same array serialized again into a single string.
func (p *APIProduct) firstImage() string {
	raw := rawBytes(p.Images)
	if len(raw) == 0 {
		return ""
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			return list[0]
		}

		return ""
	}

	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &list); err == nil && len(list) > 0 {
			return list[0]
		}
	}

	return ""
}

func (a *APIAvailability) availableQuantity() int {
	if a.TotalAvailable != nil {
		return int(*a.TotalAvailable)
	}

	total := 0
	for _, stock := range a.Stockes {
		if stock.Quantity != nil {
			total += int(*stock.Quantity)
		}
	}

	return total
}

// Normalize rebuilds the client-side projection from the raw document.
// Arabic fields win over English ones, matching the storefront's primary
// locale.
func (p *APIProduct) Normalize() Product {
	product := Product{
		ID:          p.ID.String(),
		Name:        firstNonEmpty(p.NameAr, p.NameEn, p.Name),
		Brand:       firstNonEmpty(p.BrandNameAr, p.BrandNameEn),
		BrandID:     firstNonEmpty(p.BrandID.String(), p.Brand.String()),
		Category:    p.categoryName(),
		Price:       float64(p.Price),
		Image:       p.firstImage(),
		Description: firstNonEmpty(p.DescriptionAr, p.DescriptionEn, p.Description),
		Ingredients: p.Ingredients,
	}

	if p.TotalAvailable != nil {
		total := int(*p.TotalAvailable)
		product.TotalAvailable = &total
	}

	for _, entry := range p.Availability {
		id := entry.SellingPoint.String()
		if id == "" {
			continue
		}

		product.AvailabilityBySellingPoint = append(product.AvailabilityBySellingPoint, SellingPointAvailability{
			SellingPointID: id,
			NameAr:         entry.NameAr,
			NameEn:         entry.NameEn,
			TotalAvailable: entry.availableQuantity(),
		})
	}

	return product
}

// ProductPage is one page of a filtered product listing.
type ProductPage struct {
	Products  []Product `json:"products"`
	HasMore   bool      `json:"has_more"`
	TotalRows int       `json:"total_rows"`
}

// ProductQuery carries the supported listing filters.
type ProductQuery struct {
	Page        int
	Limit       int
	Keyword     string
	Category    string
	Brand       string
	Barcode     string
	Highlighted bool
}
