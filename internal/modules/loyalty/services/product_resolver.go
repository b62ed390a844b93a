package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/matching"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/repositories"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const UnknownItem = "Unknown item"

// ProductResolver finds or creates catalog products for receipt lines
type ProductResolver struct {
	products   repositories.ProductRepo
	categories repositories.CategoryRepo
	ph         Placeholders
}

func NewProductResolver(products repositories.ProductRepo, categories repositories.CategoryRepo, ph Placeholders) *ProductResolver {
	return &ProductResolver{products: products, categories: categories, ph: ph}
}

// Resolve returns the product id for item, keyed on its normalized
// description.
func (r *ProductResolver) Resolve(ctx context.Context, item receipt.LineItem) (int64, error) {
	name := strings.TrimSpace(item.Description)
	key := matching.ProductKey(name)
	if key == "" {
		name = UnknownItem
		key = matching.ProductKey(name)
	}

	product, err := r.products.GetByKey(ctx, key)
	if err == nil {
		return product.ID, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return 0, fmt.Errorf("failed to lookup product: %w", err)
	}

	categoryID, err := r.defaultCategory(ctx)
	if err != nil {
		return 0, err
	}

	product = &models.Product{
		Reference:     r.ph.ProductReference(),
		Name:          name,
		DedupKey:      key,
		Description:   "Product extracted via OCR: " + name,
		CategoryID:    &categoryID,
		StandardPrice: item.Price.Round(2),
	}
	if err := r.products.CreateIfAbsent(ctx, product); err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	if product.ID != 0 {
		log.Debug().Int64("product_id", product.ID).Str("name", name).Msg("📦 Product created")
		return product.ID, nil
	}

	product, err = r.products.GetByKey(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to reload product: %w", err)
	}
	return product.ID, nil
}

// defaultCategory is the lowest-id category, created on an empty catalog.
func (r *ProductResolver) defaultCategory(ctx context.Context) (int64, error) {
	category, err := r.categories.First(ctx)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return 0, fmt.Errorf("failed to load category: %w", err)
	}

	label := r.ph.CategoryLabel()
	category = &models.Category{Name: label, Description: "Category " + label}
	if err := r.categories.Create(ctx, category); err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	return category.ID, nil
}

// BulkPurchaseItem is the single line recorded for receipts without
// itemized lines.
func BulkPurchaseItem(vendor string, total decimal.Decimal) receipt.LineItem {
	vendor = strings.TrimSpace(vendor)
	if vendor == "" {
		vendor = UnknownStore
	}
	return receipt.LineItem{
		Description: "bulk purchase " + vendor,
		Quantity:    decimal.NewFromInt(1),
		Price:       total,
	}
}
