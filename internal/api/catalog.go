package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/zahrabeauty/storefront/internal/errors"
	"github.com/zahrabeauty/storefront/internal/models"
)

// listEnvelope covers the two response generations the catalog endpoints
// use: {"success":true,...} from the current API and {"status":"success",...}
// from the legacy action-based one.
type listEnvelope struct {
	Success *bool           `json:"success"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	HasMore bool            `json:"has_more"`
	Total   int             `json:"total_rows"`

	Meta *struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func (e *listEnvelope) ok() bool {
	if e.Success != nil {
		return *e.Success
	}

	if e.Status != "" {
		return e.Status == "success"
	}

	// A bare {"data": ...} envelope has no status discriminator at all.
	return len(e.Data) > 0
}

func (c *httpClient) FetchProducts(ctx context.Context, query models.ProductQuery) (*models.ProductPage, error) {

	page := query.Page
	if page < 1 {
		page = 1
	}

	limit := query.Limit
	if limit < 1 {
		limit = 50
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	if query.Keyword != "" {
		params.Set("keyword", query.Keyword)
	}

	if query.Category != "" {
		params.Set("category", query.Category)
	}

	if query.Brand != "" {
		params.Set("brand", query.Brand)
	}

	if query.Barcode != "" {
		params.Set("barcode", query.Barcode)
	}

	if query.Highlighted {
		params.Set("highlighted", "true")
	}

	raw, err := c.do(ctx, http.MethodGet, "/api/v1/products?"+params.Encode(), nil, requestOptions{})
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || !envelope.ok() {
		// A malformed listing degrades to an empty page; the screens treat
		// it like an exhausted catalog rather than a failure.
		slog.Warn("Malformed product listing payload, returning empty page")

		return &models.ProductPage{}, nil
	}

	var rawProducts []models.APIProduct
	if err := json.Unmarshal(envelope.Data, &rawProducts); err != nil {
		return &models.ProductPage{}, nil
	}

	result := &models.ProductPage{
		HasMore:   envelope.HasMore,
		TotalRows: envelope.Total,
	}

	if envelope.Meta != nil && result.TotalRows == 0 {
		result.TotalRows = envelope.Meta.Total
	}

	for _, rawProduct := range rawProducts {
		product := rawProduct.Normalize()
		if product.ID == "" {
			continue
		}

		result.Products = append(result.Products, product)
	}

	return result, nil
}

func (c *httpClient) FetchProduct(ctx context.Context, productID string) (*models.Product, error) {

	raw, err := c.do(ctx, http.MethodGet, "/api/v1/products?product="+url.QueryEscape(productID), nil, requestOptions{})
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || !envelope.ok() {
		return nil, apperrors.NotFoundError("Product not found")
	}

	// The lookup endpoint answers with either a single document or a
	// one-element list depending on the backend generation.
	var single models.APIProduct
	if err := json.Unmarshal(envelope.Data, &single); err == nil && single.ID.String() != "" {
		product := single.Normalize()

		return &product, nil
	}

	var list []models.APIProduct
	if err := json.Unmarshal(envelope.Data, &list); err == nil && len(list) > 0 {
		product := list[0].Normalize()
		if product.ID != "" {
			return &product, nil
		}
	}

	return nil, apperrors.NotFoundError("Product not found")
}

func (c *httpClient) FetchBrands(ctx context.Context) ([]models.Brand, error) {

	raw, err := c.do(ctx, http.MethodGet, "/api/v1/brands", nil, requestOptions{})
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || !envelope.ok() {
		return nil, nil
	}

	var brands []models.Brand
	if err := json.Unmarshal(envelope.Data, &brands); err != nil {
		return nil, nil
	}

	filtered := brands[:0]
	for _, brand := range brands {
		if brand.ID.String() != "" && brand.BrandNameAr != "" {
			filtered = append(filtered, brand)
		}
	}

	return filtered, nil
}

func (c *httpClient) FetchCategories(ctx context.Context) ([]models.Category, error) {

	raw, err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, requestOptions{})
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || !envelope.ok() {
		return nil, nil
	}

	var categories []models.Category
	if err := json.Unmarshal(envelope.Data, &categories); err != nil {
		return nil, nil
	}

	filtered := categories[:0]
	for _, category := range categories {
		if category.ID.String() != "" {
			filtered = append(filtered, category)
		}
	}

	return filtered, nil
}

// FetchSellingPoints returns the active, sales-enabled store list. Any
// failure shape degrades to an empty list so the store picker renders
// instead of erroring; checkout guards catch the missing selection later.
func (c *httpClient) FetchSellingPoints(ctx context.Context) ([]models.SellingPoint, error) {

	raw, err := c.do(ctx, http.MethodGet, "/api/v1/selling-points?is_active=true&is_sales_enabled=true", nil, requestOptions{})
	if err != nil {
		slog.Warn("Selling points fetch failed, degrading to empty list", slog.String("error", err.Error()))

		return nil, nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil
	}

	var points []models.APISellingPoint
	if err := json.Unmarshal(envelope.Data, &points); err != nil {
		return nil, nil
	}

	return models.NormalizeSellingPoints(points), nil
}
