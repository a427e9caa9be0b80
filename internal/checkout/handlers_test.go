package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/checkout"
	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/pricebook"
)

type quoteResponse struct {
	Data checkout.Quote `json:"data"`
}

type errorResponse struct {
	Error common.ErrorBody `json:"error"`
}

type offersResponse struct {
	Data []checkout.OfferView `json:"data"`
}

func newHandler() *checkout.Handler {
	return &checkout.Handler{Svc: checkout.NewService(pricebook.Default(), nil, zerolog.Nop())}
}

func post(t *testing.T, h *checkout.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)
	return rec
}

func TestCheckoutHandler(t *testing.T) {
	h := newHandler()

	t.Run("skus string", func(t *testing.T) {
		rec := post(t, h, `{"skus":"AAAAABBB"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, int64(305), resp.Data.Total)
		require.Equal(t, int64(340), resp.Data.Subtotal)
	})

	t.Run("items list", func(t *testing.T) {
		rec := post(t, h, `{"items":["A","B","C","D","A","C","D"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, int64(200), resp.Data.Total)
		require.Empty(t, resp.Data.Applications)
	})

	t.Run("empty basket", func(t *testing.T) {
		rec := post(t, h, `{"skus":""}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Zero(t, resp.Data.Total)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := post(t, h, `{"skus":"AX"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "UNKNOWN_PRODUCT", resp.Error.Code)
		details, ok := resp.Error.Details.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "X", details["symbol"])
		require.EqualValues(t, -1, details["total"])
	})

	t.Run("both inputs", func(t *testing.T) {
		rec := post(t, h, `{"skus":"A","items":["A"]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := post(t, h, `{"skus":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOffersHandlerListsEvaluationOrder(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().Offers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp offersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, "2B for 45", resp.Data[0].Name)
	require.Equal(t, 1, resp.Data[0].Rank)
	require.Equal(t, "multi_price", resp.Data[0].Kind)
	require.InDelta(t, 7.5, resp.Data[0].PerItem, 1e-9)
	require.Equal(t, "3A for 130", resp.Data[1].Name)
}

func TestCheckoutHandlerWithoutService(t *testing.T) {
	rec := httptest.NewRecorder()
	(&checkout.Handler{}).Checkout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
