// Package admin validates catalog edits before they are persisted. Prices go
// through the pricing rules and stock levels through the stock rules, so a
// rejected edit never reaches the store.
package admin

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/pricing"
	"teakspice-catalog/internal/remote"
	"teakspice-catalog/internal/stock"
)

type Catalog interface {
	Product(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	SetStock(ctx context.Context, id string, level int) error
	CreateCategory(ctx context.Context, c *models.Category) error
	SetCategoryActive(ctx context.Context, id string, active bool) error
}

// ProductInput is the product form. OfferPrice arrives as text or a number and
// the offer rules reject a malformed value; leave it empty for no offer. Stock is
// only read on create.
type ProductInput struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Image         string            `json:"image"`
	BasePrice     models.Money      `json:"basePrice"`
	OriginalPrice models.Money      `json:"originalPrice"`
	Stock         int               `json:"stock"`
	CategoryID    string            `json:"categoryId"`
	Occasions     []string          `json:"occasions"`
	Badge         string            `json:"badge"`
	OfferName     string            `json:"offerName"`
	OfferPrice    pricing.PriceText `json:"offerPrice"`
}

type Service struct {
	catalog Catalog
	remote  remote.Policy
	logger  *zap.Logger
}

func NewService(catalog Catalog, policy remote.Policy, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, remote: policy, logger: logger}
}

func (in ProductInput) apply(p *models.Product) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("product name is required")
	}
	if err := pricing.ValidateBase(in.BasePrice, in.OriginalPrice); err != nil {
		return err
	}
	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	p.Image = in.Image
	p.BasePrice = in.BasePrice
	p.OriginalPrice = in.OriginalPrice
	p.CategoryID = in.CategoryID
	p.Occasions = normalizeOccasions(in.Occasions)
	p.Badge = strings.TrimSpace(in.Badge)
	if strings.TrimSpace(string(in.OfferPrice)) != "" {
		if err := pricing.SetOffer(p, pricing.OfferInput{Name: in.OfferName, Price: string(in.OfferPrice)}); err != nil {
			return err
		}
	}
	return checkOfferBelowBase(p)
}

func checkOfferBelowBase(p *models.Product) error {
	if p.HasOffer() && p.Offer.Price > p.BasePrice {
		return apperr.Validationf("offer price %s is above the base price %s",
			pricing.Format(p.Offer.Price), pricing.Format(p.BasePrice))
	}
	return nil
}

func normalizeOccasions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		o = strings.ToLower(strings.TrimSpace(o))
		if o != "" && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

func (s *Service) load(ctx context.Context, id string) (*models.Product, error) {
	var p *models.Product
	err := s.remote.Do(ctx, "load product", func(ctx context.Context) error {
		var err error
		p, err = s.catalog.Product(ctx, id)
		return err
	})
	return p, err
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := stock.ValidateLevel(in.Stock); err != nil {
		return nil, err
	}
	p.Stock = in.Stock

	// Not retried: a second insert after a lost acknowledgement would
	// duplicate the product.
	if err := s.catalog.CreateProduct(ctx, p); err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			return nil, apperr.Network("create product", err)
		}
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdateProduct replaces the product's details. An existing offer is kept
// unless the input carries a new one; stock is never changed here.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	err = s.remote.Do(ctx, "update product", func(ctx context.Context) error {
		return s.catalog.UpdateProduct(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.String("product_id", p.ID))
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	err := s.remote.Do(ctx, "delete product", func(ctx context.Context) error {
		return s.catalog.DeleteProduct(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *Service) SetOffer(ctx context.Context, id string, in pricing.OfferInput) (*models.Product, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *p
	if err := pricing.SetOffer(&next, in); err != nil {
		return nil, err
	}
	if err := checkOfferBelowBase(&next); err != nil {
		return nil, err
	}
	err = s.remote.Do(ctx, "save offer", func(ctx context.Context) error {
		return s.catalog.UpdateProduct(ctx, &next)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("offer set",
		zap.String("product_id", id),
		zap.String("offer", next.Offer.Name),
		zap.Int64("price", next.Offer.Price))
	return &next, nil
}

func (s *Service) ClearOffer(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.HasOffer() {
		return p, nil
	}
	pricing.ClearOffer(p)
	err = s.remote.Do(ctx, "clear offer", func(ctx context.Context) error {
		return s.catalog.UpdateProduct(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("offer cleared", zap.String("product_id", id))
	return p, nil
}

func (s *Service) SetStock(ctx context.Context, id string, level int) error {
	if err := stock.ValidateLevel(level); err != nil {
		return err
	}
	err := s.remote.Do(ctx, "set stock", func(ctx context.Context) error {
		return s.catalog.SetStock(ctx, id, level)
	})
	if err != nil {
		return err
	}
	s.logger.Info("stock set", zap.String("product_id", id), zap.Int("stock", level))
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	c := &models.Category{Name: name, IsActive: true}
	if err := s.catalog.CreateCategory(ctx, c); err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			return nil, apperr.Network("create category", err)
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) SetCategoryActive(ctx context.Context, id string, active bool) error {
	return s.remote.Do(ctx, "set category active", func(ctx context.Context) error {
		return s.catalog.SetCategoryActive(ctx, id, active)
	})
}
