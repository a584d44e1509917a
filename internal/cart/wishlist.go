package cart

import (
	"context"

	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/pricing"
	"teakspice-catalog/internal/session"
)

func (l *Ledger) Wishlist(ctx context.Context, sess session.Session) ([]models.WishlistEntry, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	var entries []models.WishlistEntry
	err := l.remote.Do(ctx, "load wishlist", func(ctx context.Context) error {
		var err error
		entries, err = l.store.WishlistEntries(ctx, sess.UserID)
		return err
	})
	return entries, err
}

// AddToWishlist saves the product with its current display price. A product
// already on the wishlist is returned as it is.
func (l *Ledger) AddToWishlist(ctx context.Context, sess session.Session, productID string) (models.WishlistEntry, error) {
	entries, err := l.Wishlist(ctx, sess)
	if err != nil {
		return models.WishlistEntry{}, err
	}
	for _, e := range entries {
		if e.ProductID == productID {
			return e, nil
		}
	}
	p, err := l.product(ctx, productID)
	if err != nil {
		return models.WishlistEntry{}, err
	}
	entry := models.WishlistEntry{
		ProductID:   p.ID,
		DisplayName: p.Name,
		UnitPrice:   pricing.Resolve(p).DisplayPrice,
		Image:       p.Image,
		AddedAt:     l.now(),
	}
	err = l.remote.Do(ctx, "save wishlist entry", func(ctx context.Context) error {
		return l.store.PutWishlistEntry(ctx, sess.UserID, entry)
	})
	if err != nil {
		return models.WishlistEntry{}, err
	}
	return entry, nil
}

// RemoveFromWishlist is a no-op for products that are not on the wishlist.
func (l *Ledger) RemoveFromWishlist(ctx context.Context, sess session.Session, productID string) error {
	if err := sess.Require(); err != nil {
		return err
	}
	return l.remote.Do(ctx, "remove wishlist entry", func(ctx context.Context) error {
		return l.store.RemoveWishlistEntry(ctx, sess.UserID, productID)
	})
}

// MoveToCart adds one unit of the wishlisted product to the cart and then
// drops it from the wishlist. The wishlist entry is only removed once the add
// has been stored. If the removal fails the returned Result still describes
// the cart entry and the error reports that the wishlist entry was kept.
func (l *Ledger) MoveToCart(ctx context.Context, sess session.Session, entry models.WishlistEntry) (Result, error) {
	res, err := l.AddItem(ctx, sess, entry.ProductID, 1)
	if err != nil {
		return Result{}, err
	}
	err = l.remote.Do(ctx, "remove wishlist entry", func(ctx context.Context) error {
		return l.store.RemoveWishlistEntry(ctx, sess.UserID, entry.ProductID)
	})
	if err != nil {
		l.logger.Warn("moved to cart but wishlist entry kept",
			zap.String("user_id", sess.UserID),
			zap.String("product_id", entry.ProductID),
			zap.Error(err))
		return res, apperr.Network("added to cart, but the item is still in your wishlist", err)
	}
	return res, nil
}
