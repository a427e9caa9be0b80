package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/noah-isme/toko-pricing/internal/basket"
	"github.com/noah-isme/toko-pricing/internal/catalog"
)

// ErrInvalidOffer is returned when an offer definition can never be evaluated.
var ErrInvalidOffer = errors.New("invalid offer")

// Offer pairs a Condition with the Discount it unlocks.
type Offer struct {
	Name      string
	Condition Condition
	Discount  Discount
}

// MultiPrice sells count units of p for price, e.g. "3A for 130".
func MultiPrice(p catalog.Product, count int, price Money) Offer {
	return Offer{
		Name:      fmt.Sprintf("%d%s for %d", count, p.SKU, price),
		Condition: NewMultiBuy(Requirement{Product: p, Count: count}),
		Discount:  FixPrice{Product: p, Count: count, Price: price},
	}
}

// BuyGetFree gives freeCount units of free away for every buyCount units of trigger.
// When trigger and free are the same product the bundle needs buyCount+freeCount units.
func BuyGetFree(trigger catalog.Product, buyCount int, free catalog.Product, freeCount int) Offer {
	name := fmt.Sprintf("%d%s get %d %s free", buyCount, trigger.SKU, freeCount, free.SKU)
	var cond MultiBuy
	if trigger.SKU == free.SKU {
		cond = NewMultiBuy(Requirement{Product: trigger, Count: buyCount + freeCount})
	} else {
		cond = NewMultiBuy(
			Requirement{Product: trigger, Count: buyCount},
			Requirement{Product: free, Count: freeCount},
		)
	}
	return Offer{
		Name:      name,
		Condition: cond,
		Discount:  GetFree{Product: free, Count: freeCount},
	}
}

// Validate reports whether the offer can be evaluated.
func (o Offer) Validate() error {
	if o.Condition == nil {
		return fmt.Errorf("offer %q has no condition: %w", o.Name, ErrInvalidOffer)
	}
	if o.Discount == nil {
		return fmt.Errorf("offer %q has no discount: %w", o.Name, ErrInvalidOffer)
	}
	if err := o.Condition.Validate(); err != nil {
		return fmt.Errorf("offer %q: %w", o.Name, err)
	}
	if err := o.Discount.Validate(); err != nil {
		return fmt.Errorf("offer %q: %w", o.Name, err)
	}
	return nil
}

// IsApplicable delegates to the offer condition.
func (o Offer) IsApplicable(counts basket.Counts) bool {
	return o.Condition.IsApplicable(counts)
}

// Apply fires the offer once against counts. The discount is computed before
// any unit is consumed, and units are consumed only when the discount is positive.
func (o Offer) Apply(counts basket.Counts) (bool, Money) {
	if !o.Condition.IsApplicable(counts) {
		return false, 0
	}
	discount := o.Discount.Apply(counts)
	if discount <= 0 {
		return false, 0
	}
	o.Condition.Applied(counts)
	return true, discount
}

// PerItem returns the ranking value of the offer discount.
func (o Offer) PerItem() float64 {
	return o.Discount.PerItem()
}

// Rank orders offers by descending per-item value. Ties keep declaration order.
func Rank(offers []Offer) []Offer {
	type keyed struct {
		offer Offer
		key   float64
	}
	ranked := make([]keyed, len(offers))
	for i, o := range offers {
		ranked[i] = keyed{offer: o, key: o.PerItem()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].key > ranked[j].key
	})
	out := make([]Offer, len(ranked))
	for i, k := range ranked {
		out[i] = k.offer
	}
	return out
}
