package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"devotly/internal/admission/breaker"
	"devotly/internal/admission/collector"
	admissioncfg "devotly/internal/admission/config"
	admissionhandler "devotly/internal/admission/handler"
	"devotly/internal/admission/limiter"
	"devotly/internal/admission/metrics"
	admissionmw "devotly/internal/admission/middleware"
	"devotly/internal/admission/models"
	"devotly/internal/admission/workers/sweep"
	cardhandler "devotly/internal/cards/handler"
	cardservice "devotly/internal/cards/service"
	cardstore "devotly/internal/cards/store"
	"devotly/internal/jwttoken"
	"devotly/internal/payments"
	"devotly/internal/platform/config"
	"devotly/internal/platform/health"
	"devotly/internal/platform/logger"
	"devotly/internal/tracking"
	httptransport "devotly/internal/transport/http"
	"devotly/internal/uploads"
	"devotly/internal/verse"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. The admission registries are constructed here and
// passed down explicitly; nothing in the request path touches globals.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment, cfg.LogLevel)

	log.Info("initializing devotly",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	// Admission layer.
	admCfg := admissioncfg.DefaultConfig()
	promMetrics := metrics.New()

	breakers := breaker.NewRegistry(admCfg.Breakers,
		breaker.WithRegistryLogger(log),
		breaker.WithRegistryStateChangeHook(func(name string, _, to models.BreakerState) {
			promMetrics.IncrementBreakerTransition(name, string(to))
		}),
	)
	limiters := limiter.NewRegistry(admCfg.Buckets,
		limiter.WithRegistryLogger(log),
	)
	outcomes := collector.New(nil)

	admission := admissionmw.New(limiters, breakers, outcomes,
		admissionmw.WithLogger(log),
		admissionmw.WithMetrics(promMetrics),
	)
	adminHandler := admissionhandler.New(breakers, limiters, outcomes, log)

	// Collaborators.
	verses := verse.NewCatalog()
	cards := cardservice.New(cardstore.NewInMemory(), verses,
		cardservice.WithLogger(log),
	)

	paymentGate, ok := breakers.Get(admissioncfg.BreakerPaymentEvents)
	if !ok {
		log.Error("breaker missing from configuration", "breaker", admissioncfg.BreakerPaymentEvents)
		os.Exit(1)
	}
	paymentHandler := payments.New(
		payments.NewHTTPEventSource(cfg.PaymentAPIBaseURL, os.Getenv("DEVOTLY_PAYMENT_API_TOKEN")),
		cards,
		paymentGate,
		cfg.WebhookSecretHash,
		log,
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("admission_breakers", func() error {
		if !breakers.AllHealthy() {
			return errors.New("one or more circuit breakers open")
		}
		return nil
	})
	healthHandler.RegisterDetail("admission", func() any {
		statuses := breakers.Statuses()
		open := 0
		for _, st := range statuses {
			if !st.Healthy {
				open++
			}
		}
		clients := 0
		for _, snap := range limiters.Snapshots() {
			clients += snap.ActiveClients
		}
		return map[string]int{
			"breakers":       len(statuses),
			"breakers_open":  open,
			"active_clients": clients,
		}
	})

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Config:         cfg,
		Admission:      admission,
		Admin:          adminHandler,
		Health:         healthHandler,
		Cards:          cardhandler.New(cards, log),
		Payments:       paymentHandler,
		Tracking:       tracking.NewHandler(tracking.NewHTTPForwarder(cfg.AnalyticsEndpoint), log),
		Uploads:        uploads.NewHandler(uploads.NewHTTPStorage(cfg.StorageEndpoint), log),
		Verses:         verse.NewHandler(verses),
		OperatorTokens: jwttoken.NewService(cfg.AdminJWTSigningKey, cfg.AdminTokenTTL),
	})

	srv := httptransport.NewServer(cfg.Addr, router)
	sweeper := sweep.New(limiters, admCfg.Sweep,
		sweep.WithLogger(log),
		sweep.WithMetrics(promMetrics),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := sweeper.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
