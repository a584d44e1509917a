// Package cart owns a signed-in shopper's cart and wishlist.
//
// Every entry stores the unit price the product was shown at when it was
// added. Later price or offer changes on the product leave existing entries
// alone. Quantities are always bounded by stock.Clamp. State is written to the
// store only through Ledger and only after validation succeeds, so a failed
// call leaves nothing to roll back.
package cart

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/order"
	"teakspice-catalog/internal/pricing"
	"teakspice-catalog/internal/remote"
	"teakspice-catalog/internal/session"
	"teakspice-catalog/internal/stock"
)

type Catalog interface {
	Product(ctx context.Context, id string) (*models.Product, error)
}

// Store persists carts and wishlists per user.
type Store interface {
	CartEntries(ctx context.Context, userID string) ([]models.CartEntry, error)
	PutCartEntry(ctx context.Context, userID string, entry models.CartEntry) error
	SetCartQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveCartEntry(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error

	WishlistEntries(ctx context.Context, userID string) ([]models.WishlistEntry, error)
	PutWishlistEntry(ctx context.Context, userID string, entry models.WishlistEntry) error
	RemoveWishlistEntry(ctx context.Context, userID, productID string) error
}

type Ledger struct {
	catalog Catalog
	store   Store
	calc    order.Calculator
	remote  remote.Policy
	logger  *zap.Logger
	now     func() time.Time
}

func NewLedger(catalog Catalog, store Store, calc order.Calculator, policy remote.Policy, logger *zap.Logger) *Ledger {
	return &Ledger{
		catalog: catalog,
		store:   store,
		calc:    calc,
		remote:  policy,
		logger:  logger,
		now:     time.Now,
	}
}

// Result is a cart entry after a mutation. Notice is set when the requested
// quantity was cut down to what is in stock.
type Result struct {
	Entry  models.CartEntry `json:"entry"`
	Notice *apperr.Error    `json:"-"`
}

type Summary struct {
	Entries []models.CartEntry `json:"entries"`
	order.Totals
}

func (l *Ledger) product(ctx context.Context, id string) (*models.Product, error) {
	var p *models.Product
	err := l.remote.Do(ctx, "load product", func(ctx context.Context) error {
		var err error
		p, err = l.catalog.Product(ctx, id)
		return err
	})
	return p, err
}

func (l *Ledger) entries(ctx context.Context, userID string) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := l.remote.Do(ctx, "load cart", func(ctx context.Context) error {
		var err error
		entries, err = l.store.CartEntries(ctx, userID)
		return err
	})
	return entries, err
}

func findEntry(entries []models.CartEntry, productID string) (models.CartEntry, bool) {
	for _, e := range entries {
		if e.ProductID == productID {
			return e, true
		}
	}
	return models.CartEntry{}, false
}

// AddItem puts quantity units of the product in the cart. If the product is
// already there the quantities are summed and clamped to current stock; the
// existing entry keeps its original price snapshot.
func (l *Ledger) AddItem(ctx context.Context, sess session.Session, productID string, quantity int) (Result, error) {
	if err := sess.Require(); err != nil {
		return Result{}, err
	}
	if quantity < 1 {
		return Result{}, apperr.Validation("quantity must be at least 1")
	}
	p, err := l.product(ctx, productID)
	if err != nil {
		return Result{}, err
	}
	if err := stock.CanInitiateAdd(p.Stock); err != nil {
		return Result{}, err
	}
	entries, err := l.entries(ctx, sess.UserID)
	if err != nil {
		return Result{}, err
	}

	entry, exists := findEntry(entries, p.ID)
	requested := quantity
	if exists {
		requested += entry.Quantity
	} else {
		entry = models.CartEntry{
			ProductID:   p.ID,
			DisplayName: p.Name,
			UnitPrice:   pricing.Resolve(p).DisplayPrice,
			Image:       p.Image,
			AddedAt:     l.now(),
		}
	}
	adj := stock.Adjust(requested, p.Stock)
	entry.Quantity = adj.Quantity

	err = l.remote.Do(ctx, "save cart entry", func(ctx context.Context) error {
		return l.store.PutCartEntry(ctx, sess.UserID, entry)
	})
	if err != nil {
		return Result{}, err
	}
	l.logger.Debug("cart item added",
		zap.String("user_id", sess.UserID),
		zap.String("product_id", p.ID),
		zap.Int("quantity", entry.Quantity),
		zap.Bool("limited", adj.Limited))
	return Result{Entry: entry, Notice: stock.Notice(adj, p.Stock)}, nil
}

// UpdateQuantity changes an entry's quantity by delta. The result never drops
// below 1; use RemoveItem to take an item out.
func (l *Ledger) UpdateQuantity(ctx context.Context, sess session.Session, productID string, delta int) (Result, error) {
	if err := sess.Require(); err != nil {
		return Result{}, err
	}
	entries, err := l.entries(ctx, sess.UserID)
	if err != nil {
		return Result{}, err
	}
	entry, ok := findEntry(entries, productID)
	if !ok {
		return Result{}, apperr.NotFoundf("product %s is not in your cart", productID)
	}
	target := entry.Quantity + delta
	if target < 1 {
		return Result{}, apperr.Validation("quantity cannot go below 1; remove the item instead")
	}
	p, err := l.product(ctx, productID)
	if err != nil {
		return Result{}, err
	}
	if delta > 0 {
		if err := stock.CanInitiateAdd(p.Stock); err != nil {
			return Result{}, err
		}
	}

	adj := stock.Adjust(target, p.Stock)
	if adj.Quantity != entry.Quantity {
		err = l.remote.Do(ctx, "update cart quantity", func(ctx context.Context) error {
			return l.store.SetCartQuantity(ctx, sess.UserID, productID, adj.Quantity)
		})
		if err != nil {
			return Result{}, err
		}
		entry.Quantity = adj.Quantity
	}
	return Result{Entry: entry, Notice: stock.Notice(adj, p.Stock)}, nil
}

func (l *Ledger) RemoveItem(ctx context.Context, sess session.Session, productID string) error {
	if err := sess.Require(); err != nil {
		return err
	}
	return l.remote.Do(ctx, "remove cart entry", func(ctx context.Context) error {
		return l.store.RemoveCartEntry(ctx, sess.UserID, productID)
	})
}

func (l *Ledger) Clear(ctx context.Context, sess session.Session) error {
	if err := sess.Require(); err != nil {
		return err
	}
	return l.remote.Do(ctx, "clear cart", func(ctx context.Context) error {
		return l.store.ClearCart(ctx, sess.UserID)
	})
}

func (l *Ledger) Items(ctx context.Context, sess session.Session) ([]models.CartEntry, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return l.entries(ctx, sess.UserID)
}

// Summary prices the cart with the same calculator that places orders.
func (l *Ledger) Summary(ctx context.Context, sess session.Session) (Summary, error) {
	entries, err := l.Items(ctx, sess)
	if err != nil {
		return Summary{}, err
	}
	if entries == nil {
		entries = []models.CartEntry{}
	}
	return Summary{
		Entries: entries,
		Totals:  l.calc.Totals(order.LinesFromCart(entries)),
	}, nil
}
