package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/shibinphilip789/bagisto/internal/cart"
	"github.com/shibinphilip789/bagisto/internal/catalog"
	"github.com/shibinphilip789/bagisto/internal/common"
	"github.com/shibinphilip789/bagisto/internal/config"
	"github.com/shibinphilip789/bagisto/internal/currency"
	"github.com/shibinphilip789/bagisto/internal/health"
	"github.com/shibinphilip789/bagisto/internal/inventory"
	"github.com/shibinphilip789/bagisto/internal/obs"
	"github.com/shibinphilip789/bagisto/internal/pricing"
	"github.com/shibinphilip789/bagisto/internal/ratelimit"
	"github.com/shibinphilip789/bagisto/internal/repo"
	"github.com/shibinphilip789/bagisto/internal/tax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "catalog")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "catalog-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "catalog-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if tracingEnabled {
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		_ = redisClient.Close()
	}()

	products := repo.ProductsRepo{Pool: pool}
	tiers := repo.TiersRepo{Pool: pool}
	indices := repo.IndicesRepo{Pool: pool}
	lines := repo.LinesRepo{Pool: pool, Products: products}
	inventories := repo.InventoriesRepo{Pool: pool}

	zoneRates, err := repo.TaxRatesRepo{Pool: pool}.ZoneRates(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("load tax rates")
	}
	taxCalc := &tax.Calculator{
		Inclusive: cfg.TaxInclusive,
		Default: tax.Address{
			Country: cfg.DefaultCountry,
			State:   cfg.DefaultState,
			Zip:     cfg.DefaultZip,
		},
		Rates: zoneRates,
	}

	converter := currency.NewConverter(cfg.CurrencyCode, cfg.CurrencySymbol, cfg.CurrencyRate)

	checker := &inventory.Checker{Store: inventories, AllowBackorders: cfg.AllowBackorders}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{Products: products})
	if err != nil {
		logger.Fatal().Err(err).Msg("build catalog service")
	}

	guestGroup := uuid.Nil
	if raw := os.Getenv("GUEST_CUSTOMER_GROUP"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			guestGroup = id
		}
	}

	pricer := &pricing.Pricer{
		Groups:   pricing.ContextGroupProvider{GuestGroup: guestGroup},
		Tiers:    tiers,
		Indices:  indices,
		Tax:      taxCalc,
		Currency: converter,
		Saleable: func(p *catalog.Product) bool {
			if !p.Type().IsStockable() {
				return true
			}
			ok, err := checker.HaveSufficientQuantity(context.Background(), p, 1)
			return err == nil && ok
		},
	}

	priceCache := catalog.NewCache(redisClient, cfg.PriceCacheTTL)

	cartSvc := &cart.Service{
		Catalog:   catalogSvc,
		Pricer:    pricer,
		Inventory: checker,
		Currency:  converter,
		Lines:     lines,
		Validator: &cart.Validator{Lines: lines, Currency: converter, Logger: logger},
	}

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogSvc})
	pricingHandler := pricing.NewHandler(pricing.HandlerConfig{
		Catalog: catalogSvc,
		Pricer:  pricer,
		Cache:   priceCache,
		Logger:  logger,
	})
	cartHandler := cart.NewHandler(cart.HandlerConfig{Service: cartSvc, Logger: logger})
	healthHandler := health.Handler{Checks: []health.Check{
		{Name: "database", Ping: func(ctx context.Context) error { return pool.Ping(ctx) }},
		{Name: "redis", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}}

	limit := ratelimit.Middleware(
		ratelimit.Limiter{Client: redisClient, Prefix: "ratelimit:"},
		ratelimit.Config{
			KeyFunc: func(r *http.Request) string { return r.RemoteAddr },
			Window:  cfg.RateLimitWindow,
			Max:     cfg.RateLimitMax,
			Logger:  logger,
		},
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	if tracingEnabled {
		router.Use(obs.TracingMiddleware)
	}
	router.Use(obs.RequestLogger{Logger: logger}.Middleware)
	router.Use(common.CustomerGroupMiddleware)
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Accept", "Content-Type", common.CustomerGroupHeader},
			AllowCredentials: true,
		}))
	}

	router.Get("/healthz", healthHandler.Live)
	router.Get("/readyz", healthHandler.Ready)
	if metricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(limit)
		r.Get("/products/{slug}", catalogHandler.ProductDetail)
		r.Get("/products/{slug}/prices", pricingHandler.ProductPrices)
		r.Get("/products/{slug}/offers", pricingHandler.Offers)
		r.Post("/carts/{cartID}/items", cartHandler.PrepareItem)
		r.Post("/carts/{cartID}/revalidate", cartHandler.Revalidate)
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown http server")
	}
	logger.Info().Msg("shutdown complete")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}
