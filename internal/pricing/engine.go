package pricing

import (
	"github.com/noah-isme/toko-pricing/internal/basket"
	"github.com/noah-isme/toko-pricing/internal/catalog"
)

// Money represents a monetary value stored in minor units.
type Money = catalog.Money

// Application records how often an offer fired during one checkout.
type Application struct {
	Offer    string `json:"offer"`
	Times    int    `json:"times"`
	Discount Money  `json:"discount"`
}

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal     Money         `json:"subtotal"`
	Discount     Money         `json:"discount"`
	Total        Money         `json:"total"`
	Applications []Application `json:"applications"`
}

// Engine prices baskets against a fixed list of offers. It holds no per-basket
// state, so one Engine may serve concurrent checkouts of independent baskets.
type Engine struct {
	offers []Offer
}

// NewEngine validates the offers and ranks them once.
func NewEngine(offers ...Offer) (*Engine, error) {
	for _, o := range offers {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	return &Engine{offers: Rank(offers)}, nil
}

// MustEngine behaves like NewEngine but panics on error.
func MustEngine(offers ...Offer) *Engine {
	e, err := NewEngine(offers...)
	if err != nil {
		panic(err)
	}
	return e
}

// Offers returns the offers in evaluation order.
func (e *Engine) Offers() []Offer {
	if e == nil {
		return nil
	}
	out := make([]Offer, len(e.offers))
	copy(out, e.offers)
	return out
}

// Checkout computes the basket total after greedily applying the ranked offers.
// Each offer fires as often as it can before the next one is tried, and units it
// consumes are no longer available to later offers. The basket is not modified.
func (e *Engine) Checkout(b *basket.Basket) Summary {
	summary := Summary{Applications: []Application{}}
	if b == nil {
		return summary
	}
	summary.Subtotal = b.FullPriceTotal()
	if e != nil {
		working := b.Snapshot()
		for _, offer := range e.offers {
			app := Application{Offer: offer.Name}
			for offer.IsApplicable(working) {
				applied, discount := offer.Apply(working)
				if !applied {
					break
				}
				app.Times++
				app.Discount += discount
			}
			if app.Times > 0 {
				summary.Applications = append(summary.Applications, app)
				summary.Discount += app.Discount
			}
		}
	}
	summary.Total = summary.Subtotal - summary.Discount
	return summary
}
