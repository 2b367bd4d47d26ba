package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AltaAIConsult/90-minutes-site/internal/cache"
	"github.com/AltaAIConsult/90-minutes-site/internal/catalog"
	"github.com/AltaAIConsult/90-minutes-site/internal/config"
	"github.com/AltaAIConsult/90-minutes-site/internal/fulfillment"
	h "github.com/AltaAIConsult/90-minutes-site/internal/http"
	"github.com/AltaAIConsult/90-minutes-site/internal/metrics"
	"github.com/AltaAIConsult/90-minutes-site/internal/payment"
	"github.com/AltaAIConsult/90-minutes-site/internal/publisher"
	"github.com/AltaAIConsult/90-minutes-site/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.SiteURL, cfg.ShippingCountries)
	verifier := payment.NewWebhookVerifier(cfg.StripeWebhookSecret)
	printful := fulfillment.NewClient(cfg.PrintfulBaseURL, cfg.PrintfulAPIKey)
	catalogSvc := catalog.NewService(printful)

	var processed cache.ProcessedSessions
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		processed = cache.NewRedisProcessedSessions(redisClient)
		defer redisClient.Close()
	} else {
		log.Println("REDIS_ADDR not set, relying on provider-side dedupe only")
	}

	var events service.EventSink
	if len(cfg.KafkaBrokers) > 0 {
		orderEvents := publisher.NewOrderEvents(cfg.KafkaBrokers...)
		defer orderEvents.Close()
		events = orderEvents
	} else {
		log.Println("KAFKA_BROKERS not set, fulfillment outcome events disabled")
	}

	pipelineMetrics := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)

	checkoutSvc := service.NewCheckoutService(gateway, cfg.Currency)
	fulfillmentSvc := service.NewFulfillmentService(gateway, printful, processed, events, pipelineMetrics)

	checkoutHandler := h.NewCheckoutHandler(checkoutSvc, cfg.RequestTimeout)
	webhookHandler := h.NewWebhookHandler(verifier, fulfillmentSvc, pipelineMetrics, cfg.RequestTimeout, cfg.MaxRequestBodySize)
	productHandler := h.NewProductHandler(catalogSvc, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/products", productHandler.Get)
	r.Post("/checkout", checkoutHandler.Create)
	r.Post("/payment-webhook", webhookHandler.Handle)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
