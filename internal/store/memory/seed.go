package memory

import (
	"context"

	"teakspice-catalog/internal/models"
)

// Seed loads a small demo catalog for DEV_MODE.
func (s *Store) Seed(ctx context.Context) error {
	categories := []models.Category{
		{ID: "sarees", Name: "Sarees", IsActive: true},
		{ID: "kurtas", Name: "Kurtas", IsActive: true},
		{ID: "jewellery", Name: "Jewellery", IsActive: true},
		{ID: "clearance", Name: "Clearance", IsActive: false},
	}
	for i := range categories {
		if err := s.CreateCategory(ctx, &categories[i]); err != nil {
			return err
		}
	}

	products := []models.Product{
		{Name: "Banarasi Silk Saree", BasePrice: 15999, Offer: &models.Offer{Name: "Festive Offer", Price: 12499}, Stock: 6, CategoryID: "sarees", Occasions: []string{"wedding", "festive"}, Badge: "Bestseller"},
		{Name: "Cotton Handloom Saree", BasePrice: 3499, OriginalPrice: 4200, Stock: 12, CategoryID: "sarees", Occasions: []string{"daily"}},
		{Name: "Chikankari Kurta", BasePrice: 2499, Stock: 0, CategoryID: "kurtas", Occasions: []string{"festive", "daily"}},
		{Name: "Anarkali Kurta Set", BasePrice: 5999, Offer: &models.Offer{Name: "Launch Price", Price: 4999}, Stock: 4, CategoryID: "kurtas", Occasions: []string{"wedding"}, Badge: "New"},
		{Name: "Kundan Necklace", BasePrice: 8999, Stock: 2, CategoryID: "jewellery", Occasions: []string{"wedding"}},
		{Name: "Oxidised Jhumkas", BasePrice: 799, Stock: 30, CategoryID: "clearance", Occasions: []string{"daily", "festive"}},
	}
	for i := range products {
		if err := s.CreateProduct(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}
