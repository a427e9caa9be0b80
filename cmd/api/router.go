package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/checkout"
	"github.com/noah-isme/toko-pricing/internal/health"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/ratelimit"
	"github.com/noah-isme/toko-pricing/internal/security"
)

type routerConfig struct {
	Logger         zerolog.Logger
	Service        *checkout.Service
	Cache          *checkout.Cache
	Limiter        *ratelimit.Limiter
	HTTPMetrics    *obs.HTTPMetrics
	MetricsEnabled bool
	TracingEnabled bool
	AllowedOrigins []string
	BodyLimit      int64
}

func newRouter(rc routerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if rc.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if rc.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: rc.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: rc.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rc.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Total-Count", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	if rc.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	var checker health.Checker
	if rc.Cache.Enabled() {
		checker = readinessChecker{cache: rc.Cache}
	}
	healthHandler := health.Handler{
		Checker:          checker,
		CacheTimeout:     300 * time.Millisecond,
		PricebookVersion: rc.Service.Book.Version,
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Catalog: rc.Service.Book.Catalog})
	checkoutHandler := &checkout.Handler{Svc: rc.Service}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(security.Headers{Enable: true, NoStore: true}.Middleware)
		r.Get("/products", catalogHandler.Products)
		r.Get("/products/{sku}", catalogHandler.Product)
		r.Get("/offers", checkoutHandler.Offers)

		r.Group(func(r chi.Router) {
			r.Use(security.BodyLimit{Max: rc.BodyLimit}.Middleware)
			if rc.Limiter != nil {
				logger := rc.Logger
				r.Use(ratelimit.Handler{
					Limiter: rc.Limiter,
					Key:     ratelimit.ByClientIP,
					OnError: func(err error) { logger.Warn().Err(err).Msg("rate limiter unavailable") },
				}.Middleware)
			}
			r.Post("/checkout", checkoutHandler.Checkout)
		})
	})
	return r
}

type readinessChecker struct {
	cache *checkout.Cache
}

func (c readinessChecker) PingCache(ctx context.Context, timeout time.Duration) error {
	return c.cache.Ping(ctx, timeout)
}
