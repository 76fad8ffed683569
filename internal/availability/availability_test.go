package availability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahrabeauty/storefront/internal/availability"
	"github.com/zahrabeauty/storefront/internal/models"
)

func testProduct() *models.Product {
	return &models.Product{
		ID:   "42",
		Name: "Rose Water Toner",
		AvailabilityBySellingPoint: []models.SellingPointAvailability{
			{SellingPointID: "sp-1", TotalAvailable: 5},
			{SellingPointID: "sp-2", TotalAvailable: 0},
		},
	}
}

func TestForSellingPoint(t *testing.T) {
	t.Run("No Selling Point Given", func(t *testing.T) {
		assert.Nil(t, availability.ForSellingPoint(testProduct(), ""))
	})

	t.Run("Nil Product", func(t *testing.T) {
		assert.Nil(t, availability.ForSellingPoint(nil, "sp-1"))
	})

	t.Run("No Record For Selling Point", func(t *testing.T) {
		assert.Nil(t, availability.ForSellingPoint(testProduct(), "sp-9"))
	})

	t.Run("Recorded Quantity", func(t *testing.T) {
		quantity := availability.ForSellingPoint(testProduct(), "sp-1")

		require.NotNil(t, quantity)
		assert.Equal(t, 5, *quantity)
	})

	t.Run("Zero Stock Is A Record, Not A Miss", func(t *testing.T) {
		quantity := availability.ForSellingPoint(testProduct(), "sp-2")

		require.NotNil(t, quantity)
		assert.Equal(t, 0, *quantity)
	})

	t.Run("Product Without Breakdown", func(t *testing.T) {
		assert.Nil(t, availability.ForSellingPoint(&models.Product{ID: "7"}, "sp-1"))
	})
}
