package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Money represents a monetary value stored in minor units.
type Money = int64

var (
	// ErrUnknownProduct is matched by every UnknownProductError.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrInvalidProduct is returned when a product definition cannot be added to a catalog.
	ErrInvalidProduct = errors.New("invalid product")
)

// UnknownProductError reports a scanned symbol that is not part of the catalog.
type UnknownProductError struct {
	Symbol string
}

// Error implements the error interface.
func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product found: %q", e.Symbol)
}

// Is allows errors.Is(err, ErrUnknownProduct).
func (e *UnknownProductError) Is(target error) bool {
	return target == ErrUnknownProduct
}

// Product is a sellable item identified by its SKU symbol.
type Product struct {
	SKU   string `json:"sku"`
	Price Money  `json:"price"`
}

// Catalog is an immutable SKU to product lookup table.
type Catalog struct {
	products map[string]Product
	order    []string
}

// New builds a catalog, rejecting empty or duplicated SKUs and negative prices.
func New(products ...Product) (*Catalog, error) {
	c := &Catalog{
		products: make(map[string]Product, len(products)),
		order:    make([]string, 0, len(products)),
	}
	for _, p := range products {
		sku := strings.TrimSpace(p.SKU)
		if sku == "" {
			return nil, fmt.Errorf("empty sku: %w", ErrInvalidProduct)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("sku %s has negative price %d: %w", sku, p.Price, ErrInvalidProduct)
		}
		if _, exists := c.products[sku]; exists {
			return nil, fmt.Errorf("duplicate sku %s: %w", sku, ErrInvalidProduct)
		}
		p.SKU = sku
		c.products[sku] = p
		c.order = append(c.order, sku)
	}
	return c, nil
}

// MustNew behaves like New but panics on error.
func MustNew(products ...Product) *Catalog {
	c, err := New(products...)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the reference price list.
func Default() *Catalog {
	return MustNew(
		Product{SKU: "A", Price: 50},
		Product{SKU: "B", Price: 30},
		Product{SKU: "C", Price: 20},
		Product{SKU: "D", Price: 15},
	)
}

// Resolve returns the product for the given symbol or an *UnknownProductError.
func (c *Catalog) Resolve(symbol string) (Product, error) {
	if c == nil {
		return Product{}, &UnknownProductError{Symbol: symbol}
	}
	p, ok := c.products[symbol]
	if !ok {
		return Product{}, &UnknownProductError{Symbol: symbol}
	}
	return p, nil
}

// ResolveAll resolves symbols in scan order and stops at the first unknown one.
func (c *Catalog) ResolveAll(symbols []string) ([]Product, error) {
	out := make([]Product, 0, len(symbols))
	for _, symbol := range symbols {
		p, err := c.Resolve(symbol)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Products lists the catalog in declaration order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, 0, len(c.order))
	for _, sku := range c.order {
		out = append(out, c.products[sku])
	}
	return out
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// SplitSymbols turns a scan string such as "AAB" into one symbol per rune.
func SplitSymbols(skus string) []string {
	out := make([]string, 0, len(skus))
	for _, r := range skus {
		out = append(out, string(r))
	}
	return out
}
