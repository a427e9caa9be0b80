package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/toko-pricing/internal/basket"
	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/pricebook"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/resilience"
)

// InvalidTotal is returned by Total when the scan contains an unknown symbol.
const InvalidTotal pricing.Money = -1

// Quote is the priced result of one checkout.
type Quote struct {
	ID               string                `json:"id"`
	PricebookVersion string                `json:"pricebook_version"`
	Lines            []basket.Line         `json:"lines"`
	Subtotal         pricing.Money         `json:"subtotal"`
	Discount         pricing.Money         `json:"discount"`
	Total            pricing.Money         `json:"total"`
	Applications     []pricing.Application `json:"applications"`
	Cached           bool                  `json:"cached"`
}

// Service prices scan sequences against a pricebook.
type Service struct {
	Book   *pricebook.Book
	Cache  *Cache
	Logger zerolog.Logger
}

// NewService returns a service using book, falling back to the default pricebook.
func NewService(book *pricebook.Book, cache *Cache, logger zerolog.Logger) *Service {
	if book == nil {
		book = pricebook.Default()
	}
	return &Service{Book: book, Cache: cache, Logger: logger}
}

// Quote resolves symbols, builds a basket and prices it. Any unknown symbol
// rejects the whole scan with an error matching catalog.ErrUnknownProduct.
func (s *Service) Quote(ctx context.Context, symbols []string) (Quote, error) {
	if s == nil || s.Book == nil {
		return Quote{}, errors.New("checkout service not configured")
	}
	ctx, span := obs.Tracer("checkout").Start(ctx, "checkout.quote")
	defer span.End()
	span.SetAttributes(
		attribute.Int("checkout.symbols", len(symbols)),
		attribute.String("pricebook.version", s.Book.Version),
	)

	products, err := s.Book.Catalog.ResolveAll(symbols)
	if err != nil {
		var unknown *catalog.UnknownProductError
		if errors.As(err, &unknown) {
			s.Logger.Info().Str("symbol", unknown.Symbol).Msg("checkout rejected unknown product")
		}
		span.SetStatus(codes.Error, "unknown product")
		obs.ObserveCheckout("unknown_product", 0, nil)
		return Quote{}, fmt.Errorf("resolve scan: %w", err)
	}
	b := basket.FromProducts(products)

	key := quoteKey(s.Book.Fingerprint, b.Snapshot())
	var cached Quote
	found, err := s.Cache.GetJSON(ctx, key, &cached)
	switch {
	case errors.Is(err, resilience.ErrOpenCircuit):
		obs.ObserveQuoteCache("bypass")
	case err != nil:
		s.Logger.Warn().Err(err).Msg("quote cache lookup failed")
		obs.ObserveQuoteCache("error")
	case found:
		obs.ObserveQuoteCache("hit")
		cached.ID = uuid.NewString()
		cached.Lines = b.Lines()
		cached.Cached = true
		span.SetAttributes(attribute.Bool("checkout.cached", true), attribute.Int64("checkout.total", cached.Total))
		obs.ObserveCheckout("ok", cached.Discount, applicationCounts(cached.Applications))
		return cached, nil
	case s.Cache.Enabled():
		obs.ObserveQuoteCache("miss")
	}

	summary := s.Book.Engine.Checkout(b)
	quote := Quote{
		ID:               uuid.NewString(),
		PricebookVersion: s.Book.Version,
		Lines:            b.Lines(),
		Subtotal:         summary.Subtotal,
		Discount:         summary.Discount,
		Total:            summary.Total,
		Applications:     summary.Applications,
	}
	if err := s.Cache.SetJSON(ctx, key, quote); err != nil && !errors.Is(err, resilience.ErrOpenCircuit) {
		s.Logger.Warn().Err(err).Msg("quote cache store failed")
	}

	span.SetAttributes(attribute.Int64("checkout.total", quote.Total))
	obs.ObserveCheckout("ok", quote.Discount, applicationCounts(quote.Applications))
	s.Logger.Debug().
		Str("quote_id", quote.ID).
		Int64("subtotal", quote.Subtotal).
		Int64("discount", quote.Discount).
		Int64("total", quote.Total).
		Msg("checkout priced")
	return quote, nil
}

// QuoteSKUs prices a scan string with one symbol per character.
func (s *Service) QuoteSKUs(ctx context.Context, skus string) (Quote, error) {
	return s.Quote(ctx, catalog.SplitSymbols(skus))
}

// Total prices skus and returns InvalidTotal when the scan cannot be priced.
func (s *Service) Total(ctx context.Context, skus string) pricing.Money {
	quote, err := s.QuoteSKUs(ctx, skus)
	if err != nil {
		return InvalidTotal
	}
	return quote.Total
}

var defaultService = NewService(nil, nil, zerolog.Nop())

// Total prices skus with the default pricebook, returning -1 for unknown symbols.
func Total(skus string) pricing.Money {
	return defaultService.Total(context.Background(), skus)
}

func applicationCounts(apps []pricing.Application) map[string]int {
	out := make(map[string]int, len(apps))
	for _, app := range apps {
		out[app.Offer] += app.Times
	}
	return out
}
