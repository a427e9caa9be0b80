package obs_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/obs"
)

func TestObserveCheckout(t *testing.T) {
	obs.MustRegisterDomainMetrics("pricing_test", prometheus.NewRegistry())

	okBefore := testutil.ToFloat64(obs.CheckoutTotal.WithLabelValues("ok"))
	unknownBefore := testutil.ToFloat64(obs.CheckoutTotal.WithLabelValues("unknown_product"))
	offerBefore := testutil.ToFloat64(obs.OfferApplicationsTotal.WithLabelValues("3A for 130"))

	obs.ObserveCheckout("ok", 20, map[string]int{"3A for 130": 2})
	obs.ObserveCheckout("unknown_product", 0, map[string]int{"3A for 130": 5})

	require.Equal(t, okBefore+1, testutil.ToFloat64(obs.CheckoutTotal.WithLabelValues("ok")))
	require.Equal(t, unknownBefore+1, testutil.ToFloat64(obs.CheckoutTotal.WithLabelValues("unknown_product")))
	require.Equal(t, offerBefore+2, testutil.ToFloat64(obs.OfferApplicationsTotal.WithLabelValues("3A for 130")))
	require.NotZero(t, testutil.CollectAndCount(obs.CheckoutDiscount))
}
