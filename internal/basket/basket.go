package basket

import "github.com/noah-isme/toko-pricing/internal/catalog"

// Counts maps a SKU to the number of units still available for pricing.
type Counts map[string]int

// Get returns the count for sku, treating a missing entry as zero.
func (c Counts) Get(sku string) int {
	return c[sku]
}

// Clone returns an independent copy of the counts.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for sku, n := range c {
		out[sku] = n
	}
	return out
}

// Line is a product with its scanned quantity.
type Line struct {
	Product  catalog.Product `json:"product"`
	Qty      int             `json:"qty"`
	Subtotal catalog.Money   `json:"subtotal"`
}

// Basket accumulates scanned products. It is owned by a single checkout and is not safe for concurrent use.
type Basket struct {
	products map[string]catalog.Product
	counts   Counts
	order    []string
}

// New returns an empty basket.
func New() *Basket {
	return &Basket{
		products: map[string]catalog.Product{},
		counts:   Counts{},
	}
}

// AddItem increments the quantity of p by one.
func (b *Basket) AddItem(p catalog.Product) {
	if _, ok := b.counts[p.SKU]; !ok {
		b.order = append(b.order, p.SKU)
		b.products[p.SKU] = p
	}
	b.counts[p.SKU]++
}

// Count returns the scanned quantity for sku.
func (b *Basket) Count(sku string) int {
	return b.counts.Get(sku)
}

// Len returns the number of distinct products scanned.
func (b *Basket) Len() int {
	return len(b.order)
}

// Snapshot returns a working copy of the counts that callers may mutate freely.
func (b *Basket) Snapshot() Counts {
	return b.counts.Clone()
}

// FullPriceTotal sums unit price times quantity for every line.
func (b *Basket) FullPriceTotal() catalog.Money {
	var total catalog.Money
	for sku, qty := range b.counts {
		total += b.products[sku].Price * catalog.Money(qty)
	}
	return total
}

// Lines lists the basket in first-scan order.
func (b *Basket) Lines() []Line {
	out := make([]Line, 0, len(b.order))
	for _, sku := range b.order {
		p := b.products[sku]
		qty := b.counts[sku]
		out = append(out, Line{Product: p, Qty: qty, Subtotal: p.Price * catalog.Money(qty)})
	}
	return out
}

// FromProducts builds a basket by adding every product in order.
func FromProducts(products []catalog.Product) *Basket {
	b := New()
	for _, p := range products {
		b.AddItem(p)
	}
	return b
}
