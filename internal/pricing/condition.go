package pricing

import (
	"fmt"

	"github.com/noah-isme/toko-pricing/internal/basket"
	"github.com/noah-isme/toko-pricing/internal/catalog"
)

// Condition decides whether an offer may fire and which units a firing consumes.
type Condition interface {
	IsApplicable(counts basket.Counts) bool
	// Applied consumes the matched units from counts. Only call it after IsApplicable returned true.
	Applied(counts basket.Counts)
	Validate() error
}

// Requirement is a minimum number of units of one product.
type Requirement struct {
	Product catalog.Product
	Count   int
}

// MultiBuy requires every listed product to be available in at least the given quantity at the same time.
type MultiBuy struct {
	Requirements []Requirement
}

// NewMultiBuy builds a bundle condition from the given requirements.
func NewMultiBuy(reqs ...Requirement) MultiBuy {
	return MultiBuy{Requirements: reqs}
}

// IsApplicable implements Condition.
func (m MultiBuy) IsApplicable(counts basket.Counts) bool {
	if len(m.Requirements) == 0 {
		return false
	}
	for _, req := range m.Requirements {
		if counts.Get(req.Product.SKU) < req.Count {
			return false
		}
	}
	return true
}

// Applied implements Condition.
func (m MultiBuy) Applied(counts basket.Counts) {
	for _, req := range m.Requirements {
		counts[req.Product.SKU] -= req.Count
	}
}

// Units returns how many units a single firing consumes.
func (m MultiBuy) Units() int {
	total := 0
	for _, req := range m.Requirements {
		total += req.Count
	}
	return total
}

// Validate implements Condition.
func (m MultiBuy) Validate() error {
	if len(m.Requirements) == 0 {
		return fmt.Errorf("multi-buy without requirements: %w", ErrInvalidOffer)
	}
	seen := make(map[string]struct{}, len(m.Requirements))
	for _, req := range m.Requirements {
		if req.Count <= 0 {
			return fmt.Errorf("multi-buy count for %s must be positive: %w", req.Product.SKU, ErrInvalidOffer)
		}
		if _, dup := seen[req.Product.SKU]; dup {
			return fmt.Errorf("multi-buy lists %s twice: %w", req.Product.SKU, ErrInvalidOffer)
		}
		seen[req.Product.SKU] = struct{}{}
	}
	return nil
}
