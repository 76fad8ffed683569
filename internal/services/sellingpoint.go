package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/zahrabeauty/storefront/internal/api"
	"github.com/zahrabeauty/storefront/internal/kvstore"
	"github.com/zahrabeauty/storefront/internal/models"
)

// SellingPointService tracks the candidate store list and the user's chosen
// selling point. The selection is held by id and resolved against the
// freshest fetched list, so a point deactivated after selection silently
// resolves to "not found" rather than erroring.
type SellingPointService struct {
	client api.Client
	store  kvstore.Store

	mu         sync.Mutex
	points     []models.SellingPoint
	selectedID string
}

func NewSellingPointService(client api.Client, store kvstore.Store) *SellingPointService {
	return &SellingPointService{client: client, store: store}
}

// Load restores the persisted selection, best effort.
func (s *SellingPointService) Load(ctx context.Context) {

	var stored string

	found, err := s.store.Get(ctx, kvstore.SellingPointKey, &stored)
	if err != nil {
		slog.Warn("Failed to restore selling point selection", slog.String("error", err.Error()))

		return
	}

	if !found {
		return
	}

	s.mu.Lock()
	s.selectedID = stored
	s.mu.Unlock()
}

// Refresh fetches the active, sales-enabled selling points. The client
// already degrades fetch failures to an empty list; callers that need a
// selling point before checkout must check Selected for nil themselves.
func (s *SellingPointService) Refresh(ctx context.Context) {

	points, err := s.client.FetchSellingPoints(ctx)
	if err != nil {
		slog.Warn("Failed to refresh selling points", slog.String("error", err.Error()))

		return
	}

	s.mu.Lock()
	s.points = points
	s.mu.Unlock()
}

// SetSelectedID updates the selection and persists it. An empty id means "no
// selection" and removes the persisted key.
func (s *SellingPointService) SetSelectedID(ctx context.Context, id string) {

	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()

	var err error

	if id == "" {
		err = s.store.Delete(ctx, kvstore.SellingPointKey)
	} else {
		err = s.store.Set(ctx, kvstore.SellingPointKey, id)
	}

	if err != nil {
		slog.Warn("Failed to persist selling point selection", slog.String("error", err.Error()))
	}
}

func (s *SellingPointService) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedID
}

// Selected resolves the persisted id against the latest fetched list. Nil
// means no selection, or a selection the list no longer contains.
func (s *SellingPointService) Selected() *models.SellingPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID == "" {
		return nil
	}

	for _, point := range s.points {
		if point.ID == s.selectedID {
			resolved := point

			return &resolved
		}
	}

	return nil
}

// Points returns a copy of the latest fetched list.
func (s *SellingPointService) Points() []models.SellingPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.points)
}
