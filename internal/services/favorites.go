package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/zahrabeauty/storefront/internal/kvstore"
)

// FavoritesService keeps the set of favorited product ids. Mutations apply
// in memory first and persist asynchronously; a storage failure never rolls
// back what the user sees.
type FavoritesService struct {
	store kvstore.Store

	mu  sync.Mutex
	ids []string

	// writeMu serializes storage writes so a slow older write cannot land
	// after a newer one.
	writeMu sync.Mutex
	wg      sync.WaitGroup
}

func NewFavoritesService(store kvstore.Store) *FavoritesService {
	return &FavoritesService{store: store}
}

// Load restores the persisted set, best effort: a read failure leaves the
// session starting from an empty set.
func (s *FavoritesService) Load(ctx context.Context) {

	var stored []string

	found, err := s.store.Get(ctx, kvstore.FavoritesKey, &stored)
	if err != nil {
		slog.Warn("Failed to restore favorites", slog.String("error", err.Error()))

		return
	}

	if !found {
		return
	}

	s.mu.Lock()
	s.ids = stored
	s.mu.Unlock()
}

// Toggle flips membership for productID. Two identical toggles cancel out.
func (s *FavoritesService) Toggle(productID string) {

	s.mu.Lock()

	if slices.Contains(s.ids, productID) {
		s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return id == productID })
	} else {
		s.ids = append(s.ids, productID)
	}

	s.mu.Unlock()

	s.persist()
}

func (s *FavoritesService) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.ids, productID)
}

// Favorites returns the ids in insertion order. Persisted as an ordered
// list, treated as a set.
func (s *FavoritesService) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.ids)
}

func (s *FavoritesService) persist() {

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		s.mu.Lock()
		snapshot := slices.Clone(s.ids)
		s.mu.Unlock()

		if err := s.store.Set(context.Background(), kvstore.FavoritesKey, snapshot); err != nil {
			slog.Warn("Failed to persist favorites", slog.String("error", err.Error()))
		}
	}()
}

// Flush waits for queued persistence writes. Used at shutdown and in tests.
func (s *FavoritesService) Flush() {
	s.wg.Wait()
}
