package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/money"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/storage"
)

const cartStorageKey = "cart"

// cartService keeps the live cart in memory and writes the whole list
// through the storage adapter on every mutation, so a restart always
// sees the last committed cart.
type cartService struct {
	logger *slog.Logger
	store  *storage.Store
	ttl    time.Duration

	mu    sync.Mutex
	items []entities.CartItem
}

func NewCartService(logger *slog.Logger, store *storage.Store, ttl time.Duration) *cartService {
	s := &cartService{
		logger: logger.With(slog.String("service", "cart")),
		store:  store,
		ttl:    ttl,
	}

	if _, err := store.Get(cartStorageKey, &s.items); err != nil {
		s.logger.Warn("failed to load persisted cart", slog.Any("error", err))
	}
	return s
}

// AddItem puts a product in the cart. An already-present product gets
// its quantity bumped instead of a duplicate line.
func (s *cartService) AddItem(product entities.Product) []entities.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ProductID == product.ID {
			s.items[i].Quantity++
			s.persist()
			return s.snapshotLocked()
		}
	}

	item := entities.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		PriceText: money.FormatPrice(product.Price),
		Quantity:  1,
		Category:  product.Category,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}
	s.items = append(s.items, item)
	s.persist()
	return s.snapshotLocked()
}

// UpdateQuantity sets the quantity for a line. Zero or negative removes
// the line, same as RemoveItem. Unknown ids are ignored.
func (s *cartService) UpdateQuantity(productID string, quantity int) []entities.CartItem {
	if quantity <= 0 {
		return s.RemoveItem(productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ProductID == productID {
			s.items[i].Quantity = quantity
			s.persist()
			break
		}
	}
	return s.snapshotLocked()
}

func (s *cartService) RemoveItem(productID string) []entities.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist()
			break
		}
	}
	return s.snapshotLocked()
}

func (s *cartService) Items() []entities.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Total is recomputed from the live lines on every call, never cached.
func (s *cartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	prices := make([]float64, len(s.items))
	quantities := make([]int, len(s.items))
	for i, it := range s.items {
		prices[i] = money.ParsePrice(it.PriceText)
		quantities[i] = it.Quantity
	}
	return money.Subtotal(prices, quantities)
}

func (s *cartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

func (s *cartService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist()
}

// Snapshot captures the cart lines as order items by value; the stored
// order must not move if the catalog changes later.
func (s *cartService) Snapshot() []entities.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entities.OrderItem, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, entities.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     money.ParsePrice(it.PriceText),
			Quantity:  it.Quantity,
			Image:     it.Image,
			Category:  it.Category,
		})
	}
	return items
}

// persist writes synchronously; caller must hold the lock. A quota
// failure here is logged and propagates nowhere, matching the
// storefront behaviour.
func (s *cartService) persist() {
	if err := s.store.Set(cartStorageKey, s.items, s.ttl); err != nil {
		s.logger.Error("failed to persist cart", slog.Any("error", err))
	}
}

func (s *cartService) snapshotLocked() []entities.CartItem {
	out := make([]entities.CartItem, len(s.items))
	copy(out, s.items)
	return out
}
