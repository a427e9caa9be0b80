package pricing

import (
	"fmt"

	"github.com/noah-isme/toko-pricing/internal/basket"
	"github.com/noah-isme/toko-pricing/internal/catalog"
)

// Discount computes the saving granted when its paired condition holds.
// Apply reads counts without mutating them.
type Discount interface {
	Apply(counts basket.Counts) Money
	// PerItem is the saving per affected unit, used only to rank offers.
	PerItem() float64
	Validate() error
}

// FixPrice sells Count units of Product for a flat Price.
type FixPrice struct {
	Product catalog.Product
	Count   int
	Price   Money
}

// Apply implements Discount. The result is negative when Price exceeds the full price.
func (d FixPrice) Apply(counts basket.Counts) Money {
	if counts.Get(d.Product.SKU) < d.Count {
		return 0
	}
	return d.Product.Price*Money(d.Count) - d.Price
}

// PerItem implements Discount.
func (d FixPrice) PerItem() float64 {
	if d.Count <= 0 {
		return 0
	}
	return float64(d.Product.Price) - float64(d.Price)/float64(d.Count)
}

// Validate implements Discount.
func (d FixPrice) Validate() error {
	if d.Count <= 0 {
		return fmt.Errorf("fix price count for %s must be positive: %w", d.Product.SKU, ErrInvalidOffer)
	}
	return nil
}

// GetFree gives Count units of Product away.
type GetFree struct {
	Product catalog.Product
	Count   int
}

// Apply implements Discount.
func (d GetFree) Apply(counts basket.Counts) Money {
	if counts.Get(d.Product.SKU) < d.Count {
		return 0
	}
	return d.Product.Price * Money(d.Count)
}

// PerItem implements Discount.
func (d GetFree) PerItem() float64 {
	return float64(d.Product.Price)
}

// Validate implements Discount.
func (d GetFree) Validate() error {
	if d.Count <= 0 {
		return fmt.Errorf("free item count for %s must be positive: %w", d.Product.SKU, ErrInvalidOffer)
	}
	return nil
}
