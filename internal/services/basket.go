package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/zahrabeauty/storefront/internal/kvstore"
	"github.com/zahrabeauty/storefront/internal/models"
)

// BasketService owns the shopping basket for the current device. It keeps at
// most one entry per product id; adding an existing product increments its
// quantity. Every mutation applies in memory first and persists the whole
// collection asynchronously.
type BasketService struct {
	store kvstore.Store

	mu      sync.Mutex
	entries []models.BasketEntry

	writeMu sync.Mutex
	wg      sync.WaitGroup
}

func NewBasketService(store kvstore.Store) *BasketService {
	return &BasketService{store: store}
}

// Load restores the persisted basket, best effort.
func (s *BasketService) Load(ctx context.Context) {

	var stored []models.BasketEntry

	found, err := s.store.Get(ctx, kvstore.BasketKey, &stored)
	if err != nil {
		slog.Warn("Failed to restore basket", slog.String("error", err.Error()))

		return
	}

	if !found {
		return
	}

	s.mu.Lock()
	s.entries = stored
	s.mu.Unlock()
}

// Add puts quantity units of productID into the basket, merging into the
// existing entry when there is one. Bound-checking against selling-point
// availability is the caller's responsibility.
func (s *BasketService) Add(productID string, quantity int) {

	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()

	idx := slices.IndexFunc(s.entries, func(e models.BasketEntry) bool { return e.ProductID == productID })
	if idx >= 0 {
		s.entries[idx].Quantity += quantity
	} else {
		s.entries = append(s.entries, models.BasketEntry{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}

	s.mu.Unlock()

	s.persist()
}

// UpdateQuantity replaces an entry's quantity; zero or negative removes it.
func (s *BasketService) UpdateQuantity(productID string, quantity int) {

	if quantity <= 0 {
		s.Remove(productID)

		return
	}

	s.mu.Lock()

	idx := slices.IndexFunc(s.entries, func(e models.BasketEntry) bool { return e.ProductID == productID })
	if idx >= 0 {
		s.entries[idx].Quantity = quantity
	}

	s.mu.Unlock()

	s.persist()
}

// Remove deletes the entry for productID; removing an absent product is a
// no-op.
func (s *BasketService) Remove(productID string) {

	s.mu.Lock()
	s.entries = slices.DeleteFunc(s.entries, func(e models.BasketEntry) bool { return e.ProductID == productID })
	s.mu.Unlock()

	s.persist()
}

// Clear empties the basket, after order submission or an explicit "empty
// basket" confirmation.
func (s *BasketService) Clear() {

	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	s.persist()
}

// ItemQuantity returns the quantity in the basket for productID, 0 when
// absent.
func (s *BasketService) ItemQuantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.ProductID == productID {
			return entry.Quantity
		}
	}

	return 0
}

// Items returns a copy of the basket in insertion order.
func (s *BasketService) Items() []models.BasketEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.entries)
}

// TotalItems is the sum of all entry quantities.
func (s *BasketService) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, entry := range s.entries {
		total += entry.Quantity
	}

	return total
}

func (s *BasketService) persist() {

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		s.mu.Lock()
		snapshot := slices.Clone(s.entries)
		s.mu.Unlock()

		if snapshot == nil {
			snapshot = []models.BasketEntry{}
		}

		if err := s.store.Set(context.Background(), kvstore.BasketKey, snapshot); err != nil {
			slog.Warn("Failed to persist basket", slog.String("error", err.Error()))
		}
	}()
}

// Flush waits for queued persistence writes. Used at shutdown and in tests.
func (s *BasketService) Flush() {
	s.wg.Wait()
}
