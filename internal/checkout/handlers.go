package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// Request is the checkout payload. Exactly one of SKUs or Items may be set;
// an empty payload prices an empty basket.
type Request struct {
	SKUs  *string  `json:"skus"`
	Items []string `json:"items"`
}

// OfferView describes an offer in evaluation order.
type OfferView struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	PerItem float64 `json:"per_item"`
}

type Handler struct {
	Svc *Service
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.SKUs != nil && len(payload.Items) > 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "send either skus or items", nil)
		return
	}
	symbols := payload.Items
	if payload.SKUs != nil {
		symbols = catalog.SplitSymbols(*payload.SKUs)
	}
	quote, err := h.Svc.Quote(r.Context(), symbols)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, quote)
}

func (h *Handler) Offers(w http.ResponseWriter, _ *http.Request) {
	if h.Svc == nil || h.Svc.Book == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	offers := h.Svc.Book.Engine.Offers()
	out := make([]OfferView, 0, len(offers))
	for i, o := range offers {
		out = append(out, OfferView{Rank: i + 1, Name: o.Name, Kind: offerKind(o), PerItem: o.PerItem()})
	}
	common.Data(w, http.StatusOK, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var unknown *catalog.UnknownProductError
	if errors.As(err, &unknown) {
		common.WriteError(w, common.NewAppError("UNKNOWN_PRODUCT", unknown.Error(), http.StatusUnprocessableEntity, err).
			WithDetails(map[string]any{"symbol": unknown.Symbol, "total": InvalidTotal}))
		return
	}
	common.WriteError(w, err)
}

func offerKind(o pricing.Offer) string {
	switch o.Discount.(type) {
	case pricing.FixPrice:
		return "multi_price"
	case pricing.GetFree:
		return "get_free"
	default:
		return "custom"
	}
}
