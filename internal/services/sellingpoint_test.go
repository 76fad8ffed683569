package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zahrabeauty/storefront/internal/api"
	"github.com/zahrabeauty/storefront/internal/kvstore"
	"github.com/zahrabeauty/storefront/internal/models"
	service "github.com/zahrabeauty/storefront/internal/services"
	"github.com/zahrabeauty/storefront/internal/testutils"
)

func TestSellingPointSelection(t *testing.T) {
	ctx := t.Context()

	activePoints := []models.SellingPoint{
		{ID: "sp-1", NameAr: "فرع الرياض"},
		{ID: "sp-2", NameEn: "Mall Branch"},
	}

	t.Run("Selected Resolves Against The Fetched List", func(t *testing.T) {
		client := api.NewMockClient()
		client.On("FetchSellingPoints", mock.Anything).Return(activePoints, nil)

		points := service.NewSellingPointService(client, testutils.NewMemoryStore())
		points.Refresh(ctx)
		points.SetSelectedID(ctx, "sp-2")

		selected := points.Selected()
		require.NotNil(t, selected)
		assert.Equal(t, "Mall Branch", selected.NameEn)
	})

	t.Run("Deactivated Selection Resolves To Nil", func(t *testing.T) {
		client := api.NewMockClient()
		client.On("FetchSellingPoints", mock.Anything).Return(activePoints, nil).Once()
		client.On("FetchSellingPoints", mock.Anything).Return([]models.SellingPoint{{ID: "sp-1"}}, nil).Once()

		points := service.NewSellingPointService(client, testutils.NewMemoryStore())
		points.Refresh(ctx)
		points.SetSelectedID(ctx, "sp-2")

		points.Refresh(ctx)

		assert.Equal(t, "sp-2", points.SelectedID(), "the raw id survives")
		assert.Nil(t, points.Selected(), "but it no longer resolves")
	})

	t.Run("No Selection Is Nil", func(t *testing.T) {
		client := api.NewMockClient()
		client.On("FetchSellingPoints", mock.Anything).Return(activePoints, nil)

		points := service.NewSellingPointService(client, testutils.NewMemoryStore())
		points.Refresh(ctx)

		assert.Nil(t, points.Selected())
	})
}

func TestSellingPointPersistence(t *testing.T) {
	ctx := t.Context()

	t.Run("Selection Round Trips", func(t *testing.T) {
		store := testutils.NewMemoryStore()

		client := api.NewMockClient()

		points := service.NewSellingPointService(client, store)
		points.SetSelectedID(ctx, "sp-1")

		restored := service.NewSellingPointService(client, store)
		restored.Load(ctx)

		assert.Equal(t, "sp-1", restored.SelectedID())
	})

	t.Run("Clearing The Selection Deletes The Key", func(t *testing.T) {
		store := testutils.NewMemoryStore()

		points := service.NewSellingPointService(api.NewMockClient(), store)
		points.SetSelectedID(ctx, "sp-1")
		require.True(t, store.Has(kvstore.SellingPointKey))

		points.SetSelectedID(ctx, "")

		assert.False(t, store.Has(kvstore.SellingPointKey))
		assert.Nil(t, points.Selected())
	})
}
