package memory

import (
	"context"
	"slices"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

func (s *Store) CartEntries(ctx context.Context, userID string) ([]models.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.carts[userID]), nil
}

// PutCartEntry inserts the entry or replaces the one for the same product.
func (s *Store) PutCartEntry(ctx context.Context, userID string, entry models.CartEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == entry.ProductID {
			items[i] = entry
			return nil
		}
	}
	s.carts[userID] = append(items, entry)
	return nil
}

func (s *Store) SetCartQuantity(ctx context.Context, userID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return nil
		}
	}
	return apperr.NotFoundf("product %s is not in the cart", productID)
}

func (s *Store) RemoveCartEntry(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = slices.DeleteFunc(s.carts[userID], func(e models.CartEntry) bool {
		return e.ProductID == productID
	})
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

func (s *Store) WishlistEntries(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.wishlists[userID]), nil
}

func (s *Store) PutWishlistEntry(ctx context.Context, userID string, entry models.WishlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.wishlists[userID]
	for i := range items {
		if items[i].ProductID == entry.ProductID {
			items[i] = entry
			return nil
		}
	}
	s.wishlists[userID] = append(items, entry)
	return nil
}

func (s *Store) RemoveWishlistEntry(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlists[userID] = slices.DeleteFunc(s.wishlists[userID], func(e models.WishlistEntry) bool {
		return e.ProductID == productID
	})
	return nil
}
