package catalog

import (
	"errors"
	"testing"
)

func TestResolveKnownProduct(t *testing.T) {
	c := Default()
	first, err := c.Resolve("A")
	if err != nil {
		t.Fatalf("resolve A: %v", err)
	}
	second, err := c.Resolve("A")
	if err != nil {
		t.Fatalf("resolve A again: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical products, got %+v and %+v", first, second)
	}
	if first.Price != 50 {
		t.Fatalf("expected price 50, got %d", first.Price)
	}
}

func TestResolveUnknownProduct(t *testing.T) {
	for _, symbol := range []string{"X", "-", "a", ""} {
		_, err := Default().Resolve(symbol)
		if !errors.Is(err, ErrUnknownProduct) {
			t.Fatalf("expected ErrUnknownProduct for %q, got %v", symbol, err)
		}
		var unknown *UnknownProductError
		if !errors.As(err, &unknown) || unknown.Symbol != symbol {
			t.Fatalf("expected UnknownProductError for %q, got %v", symbol, err)
		}
	}
}

func TestResolveAllStopsAtFirstUnknown(t *testing.T) {
	_, err := Default().ResolveAll(SplitSymbols("ABXYC"))
	var unknown *UnknownProductError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownProductError, got %v", err)
	}
	if unknown.Symbol != "X" {
		t.Fatalf("expected first unknown symbol X, got %q", unknown.Symbol)
	}
}

func TestNewRejectsInvalidProducts(t *testing.T) {
	cases := map[string][]Product{
		"empty sku":      {{SKU: " ", Price: 1}},
		"negative price": {{SKU: "A", Price: -1}},
		"duplicate sku":  {{SKU: "A", Price: 1}, {SKU: "A", Price: 2}},
	}
	for name, products := range cases {
		if _, err := New(products...); !errors.Is(err, ErrInvalidProduct) {
			t.Fatalf("%s: expected ErrInvalidProduct, got %v", name, err)
		}
	}
}

func TestProductsKeepDeclarationOrder(t *testing.T) {
	products := Default().Products()
	want := []string{"A", "B", "C", "D"}
	if len(products) != len(want) {
		t.Fatalf("expected %d products, got %d", len(want), len(products))
	}
	for i, p := range products {
		if p.SKU != want[i] {
			t.Fatalf("position %d: expected %s got %s", i, want[i], p.SKU)
		}
	}
}

func TestSplitSymbols(t *testing.T) {
	got := SplitSymbols("AAB")
	if len(got) != 3 || got[0] != "A" || got[2] != "B" {
		t.Fatalf("unexpected symbols %v", got)
	}
	if len(SplitSymbols("")) != 0 {
		t.Fatal("expected no symbols for empty input")
	}
}
