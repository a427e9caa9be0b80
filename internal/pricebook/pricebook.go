package pricebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// ErrInvalidPricebook indicates the definition could not be turned into a catalog and offers.
var ErrInvalidPricebook = errors.New("invalid pricebook")

const (
	KindMultiPrice = "multi_price"
	KindGetFree    = "get_free"
)

// ProductDef is a product entry in a pricebook file. SKUs are a single
// character because scan strings carry one symbol per character.
type ProductDef struct {
	SKU   string `koanf:"sku" json:"sku" validate:"required,len=1"`
	Price int64  `koanf:"price" json:"price" validate:"gte=0"`
}

// OfferDef is an offer entry in a pricebook file.
//
// multi_price: Count units of SKU sell for Price.
// get_free: every Count units of SKU give FreeCount units of FreeSKU away.
type OfferDef struct {
	Name      string `koanf:"name" json:"name,omitempty"`
	Kind      string `koanf:"kind" json:"kind" validate:"required,oneof=multi_price get_free"`
	SKU       string `koanf:"sku" json:"sku" validate:"required"`
	Count     int    `koanf:"count" json:"count" validate:"gt=0"`
	Price     int64  `koanf:"price" json:"price,omitempty" validate:"gte=0"`
	FreeSKU   string `koanf:"free_sku" json:"free_sku,omitempty" validate:"required_if=Kind get_free"`
	FreeCount int    `koanf:"free_count" json:"free_count,omitempty" validate:"gte=0"`
}

// Definition is the raw, validated content of a pricebook.
type Definition struct {
	Version  string       `koanf:"version" json:"version,omitempty"`
	Products []ProductDef `koanf:"products" json:"products" validate:"required,min=1,dive"`
	Offers   []OfferDef   `koanf:"offers" json:"offers" validate:"dive"`
}

// Book is a ready-to-use catalog with its pricing engine.
// Version is the label shown to clients; Fingerprint identifies the content
// and changes whenever a price or offer does.
type Book struct {
	Version     string
	Fingerprint string
	Catalog     *catalog.Catalog
	Engine      *pricing.Engine
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultDefinition mirrors the reference price list and its two multi-buy offers.
func DefaultDefinition() Definition {
	return Definition{
		Version: "default",
		Products: []ProductDef{
			{SKU: "A", Price: 50},
			{SKU: "B", Price: 30},
			{SKU: "C", Price: 20},
			{SKU: "D", Price: 15},
		},
		Offers: []OfferDef{
			{Kind: KindMultiPrice, SKU: "A", Count: 3, Price: 130},
			{Kind: KindMultiPrice, SKU: "B", Count: 2, Price: 45},
		},
	}
}

// Default builds the reference book.
func Default() *Book {
	book, err := Build(DefaultDefinition())
	if err != nil {
		panic(err)
	}
	return book
}

// Load reads a JSON pricebook from path. An empty path yields the default book.
func Load(path string) (*Book, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
		return nil, fmt.Errorf("load pricebook %s: %w", path, err)
	}
	var def Definition
	if err := k.Unmarshal("", &def); err != nil {
		return nil, fmt.Errorf("decode pricebook %s: %w", path, err)
	}
	return Build(def)
}

// Build validates def and constructs the catalog and engine it describes.
func Build(def Definition) (*Book, error) {
	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPricebook, err)
	}
	products := make([]catalog.Product, 0, len(def.Products))
	for _, p := range def.Products {
		products = append(products, catalog.Product{SKU: p.SKU, Price: p.Price})
	}
	cat, err := catalog.New(products...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPricebook, err)
	}
	offers := make([]pricing.Offer, 0, len(def.Offers))
	for i, od := range def.Offers {
		offer, err := buildOffer(cat, od)
		if err != nil {
			return nil, fmt.Errorf("%w: offer %d: %v", ErrInvalidPricebook, i, err)
		}
		offers = append(offers, offer)
	}
	engine, err := pricing.NewEngine(offers...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPricebook, err)
	}
	sum := fingerprint(def)
	version := strings.TrimSpace(def.Version)
	if version == "" {
		version = sum
	}
	return &Book{Version: version, Fingerprint: sum, Catalog: cat, Engine: engine}, nil
}

func buildOffer(cat *catalog.Catalog, od OfferDef) (pricing.Offer, error) {
	product, err := cat.Resolve(od.SKU)
	if err != nil {
		return pricing.Offer{}, err
	}
	var offer pricing.Offer
	switch od.Kind {
	case KindMultiPrice:
		offer = pricing.MultiPrice(product, od.Count, od.Price)
	case KindGetFree:
		free, err := cat.Resolve(od.FreeSKU)
		if err != nil {
			return pricing.Offer{}, err
		}
		freeCount := od.FreeCount
		if freeCount == 0 {
			freeCount = 1
		}
		offer = pricing.BuyGetFree(product, od.Count, free, freeCount)
	default:
		return pricing.Offer{}, fmt.Errorf("unsupported offer kind %q", od.Kind)
	}
	if name := strings.TrimSpace(od.Name); name != "" {
		offer.Name = name
	}
	return offer, nil
}

func fingerprint(def Definition) string {
	def.Version = ""
	data, err := json.Marshal(def)
	if err != nil {
		return "unversioned"
	}
	return common.Sha256Hex(string(data))[:12]
}
