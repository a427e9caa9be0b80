package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout computations by result (ok, unknown_product).
	CheckoutTotal *prometheus.CounterVec
	// OfferApplicationsTotal counts how many times each offer fired.
	OfferApplicationsTotal *prometheus.CounterVec
	// CheckoutDiscount records the discount granted per successful checkout in minor units.
	CheckoutDiscount prometheus.Histogram
	// QuoteCacheTotal counts quote cache lookups by result (hit, miss, error, bypass).
	QuoteCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers checkout Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout computations by outcome.",
		}, []string{"result"})
		OfferApplicationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_applications_total",
			Help:      "Number of times each offer fired across checkouts.",
		}, []string{"offer"})
		CheckoutDiscount = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_discount",
			Help:      "Discount granted per checkout in minor currency units.",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000, 5000},
		})
		QuoteCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_cache_total",
			Help:      "Quote cache lookups by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, OfferApplicationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OfferApplicationsTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutDiscount, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				CheckoutDiscount = v
			}
		})
		mustRegisterCollector(reg, QuoteCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteCacheTotal = v
			}
		})
	})
}

// ObserveCheckout records the outcome of one checkout. It is a no-op until the domain metrics are registered.
func ObserveCheckout(result string, discount int64, offers map[string]int) {
	if CheckoutTotal != nil {
		CheckoutTotal.WithLabelValues(result).Inc()
	}
	if result != "ok" {
		return
	}
	if CheckoutDiscount != nil {
		CheckoutDiscount.Observe(float64(discount))
	}
	if OfferApplicationsTotal != nil {
		for name, times := range offers {
			OfferApplicationsTotal.WithLabelValues(name).Add(float64(times))
		}
	}
}

// ObserveQuoteCache records a quote cache lookup outcome.
func ObserveQuoteCache(result string) {
	if QuoteCacheTotal != nil {
		QuoteCacheTotal.WithLabelValues(result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
