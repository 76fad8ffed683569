// Package availability resolves how many units of a product are in stock at
// a given selling point.
package availability

import "github.com/zahrabeauty/storefront/internal/models"

// ForSellingPoint returns the recorded quantity of product at the selling
// point, or nil when no selling point is given or the product carries no
// availability record for it. Call sites treat nil as "not purchasable
// there"; a missing record and zero stock are deliberately not
// distinguished.
func ForSellingPoint(product *models.Product, sellingPointID string) *int {
	if product == nil || sellingPointID == "" {
		return nil
	}

	for _, entry := range product.AvailabilityBySellingPoint {
		if entry.SellingPointID == sellingPointID {
			quantity := entry.TotalAvailable

			return &quantity
		}
	}

	return nil
}
