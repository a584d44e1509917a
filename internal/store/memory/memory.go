// Package memory is an in-process implementation of every store interface,
// used in DEV_MODE and by tests. All data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

type reservation struct {
	productID string
	quantity  int
}

type Store struct {
	mu           sync.Mutex
	products     map[string]models.Product
	productIDs   []string
	categories   []models.Category
	carts        map[string][]models.CartEntry
	wishlists    map[string][]models.WishlistEntry
	orders       map[string]models.Order
	orderIDs     []string
	reservations map[string]reservation
	users        map[string]models.User
}

func New() *Store {
	return &Store{
		products:     make(map[string]models.Product),
		carts:        make(map[string][]models.CartEntry),
		wishlists:    make(map[string][]models.WishlistEntry),
		orders:       make(map[string]models.Order),
		reservations: make(map[string]reservation),
		users:        make(map[string]models.User),
	}
}

func cloneProduct(p models.Product) models.Product {
	if p.Offer != nil {
		o := *p.Offer
		p.Offer = &o
	}
	p.Occasions = slices.Clone(p.Occasions)
	return p
}

func cloneOrder(o models.Order) models.Order {
	o.Lines = slices.Clone(o.Lines)
	return o
}

// ----- Catalog -----

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.productIDs))
	for _, id := range s.productIDs {
		out = append(out, cloneProduct(s.products[id]))
	}
	return out, nil
}

func (s *Store) Product(ctx context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, apperr.NotFoundf("product %s not found", id)
	}
	cp := cloneProduct(p)
	return &cp, nil
}

// SearchProducts matches the query against name and description, ignoring case.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	out := []models.Product{}
	for _, id := range s.productIDs {
		p := s.products[id]
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := s.products[p.ID]; exists {
		return apperr.Validationf("product %s already exists", p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = cloneProduct(*p)
	s.productIDs = append(s.productIDs, p.ID)
	return nil
}

// UpdateProduct replaces everything except stock, which only SetStock and
// reservations change.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[p.ID]
	if !ok {
		return apperr.NotFoundf("product %s not found", p.ID)
	}
	next := cloneProduct(*p)
	next.Stock = cur.Stock
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = time.Now()
	s.products[p.ID] = next
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return apperr.NotFoundf("product %s not found", id)
	}
	delete(s.products, id)
	s.productIDs = slices.DeleteFunc(s.productIDs, func(x string) bool { return x == id })
	return nil
}

func (s *Store) SetStock(ctx context.Context, id string, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return apperr.NotFoundf("product %s not found", id)
	}
	p.Stock = level
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return nil
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories), nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	for _, existing := range s.categories {
		if existing.ID == c.ID || strings.EqualFold(existing.Name, c.Name) {
			return apperr.Validationf("category %q already exists", c.Name)
		}
	}
	s.categories = append(s.categories, *c)
	return nil
}

func (s *Store) SetCategoryActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].IsActive = active
			return nil
		}
	}
	return apperr.NotFoundf("category %s not found", id)
}

// ----- Inventory -----

func (s *Store) Reserve(ctx context.Context, key, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, done := s.reservations[key]; done {
		return nil
	}
	p, ok := s.products[productID]
	if !ok {
		return apperr.NotFoundf("product %s no longer exists", productID)
	}
	if p.Stock < quantity {
		return outOfStock(p.Stock)
	}
	p.Stock -= quantity
	s.products[productID] = p
	s.reservations[key] = reservation{productID: productID, quantity: quantity}
	return nil
}

func (s *Store) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[key]
	if !ok {
		return nil
	}
	delete(s.reservations, key)
	if p, ok := s.products[r.productID]; ok {
		p.Stock += r.quantity
		s.products[r.productID] = p
	}
	return nil
}

// Settle forgets reservations without returning their stock.
func (s *Store) Settle(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.reservations, key)
	}
	return nil
}

func outOfStock(available int) error {
	if available <= 0 {
		return apperr.OutOfStock("out of stock")
	}
	return apperr.OutOfStock(fmt.Sprintf("only %d left", available))
}

// ----- Orders -----

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[o.ID]; exists {
		// Repeated insert of the same order after a lost acknowledgement.
		return nil
	}
	s.orders[o.ID] = cloneOrder(*o)
	s.orderIDs = append(s.orderIDs, o.ID)
	return nil
}

func (s *Store) Order(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, apperr.NotFoundf("order %s not found", id)
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, id := range s.orderIDs {
		if o := s.orders[id]; o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) AllOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for i := len(s.orderIDs) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneOrder(s.orders[s.orderIDs[i]]))
	}
	return out, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, payment models.PaymentStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return apperr.NotFoundf("order %s not found", id)
	}
	o.Status = status
	o.PaymentStatus = payment
	o.UpdatedAt = at
	s.orders[id] = o
	return nil
}
