package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"renewal-gateway/internal/access"
	jwttoken "renewal-gateway/internal/jwt_token"
	licencehandler "renewal-gateway/internal/licence/handler"
	licencemetrics "renewal-gateway/internal/licence/metrics"
	licenceservice "renewal-gateway/internal/licence/service"
	licencestore "renewal-gateway/internal/licence/store"
	paymenthandler "renewal-gateway/internal/payment/handler"
	paymentmetrics "renewal-gateway/internal/payment/metrics"
	paymentservice "renewal-gateway/internal/payment/service"
	paymentstore "renewal-gateway/internal/payment/store"
	"renewal-gateway/internal/platform/config"
	"renewal-gateway/internal/platform/httpserver"
	"renewal-gateway/internal/platform/logger"
	"renewal-gateway/internal/platform/metrics"
	"renewal-gateway/internal/platform/postgres"
	renewalhandler "renewal-gateway/internal/renewal/handler"
	renewalmetrics "renewal-gateway/internal/renewal/metrics"
	renewalservice "renewal-gateway/internal/renewal/service"
	renewalstore "renewal-gateway/internal/renewal/store"
	httptransport "renewal-gateway/internal/transport/http"
	txcontext "renewal-gateway/pkg/platform/tx"
)

// main wires configuration, storage, services and the HTTP router, then runs
// the server until SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg, log); err != nil {
		log.Error("renewal-gateway stopped", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	db       *sql.DB
	tx       txcontext.Runner
	licences interface {
		licenceservice.Store
		renewalservice.LicenceChecker
		licencestore.Creator
	}
	renewals interface {
		renewalservice.Store
		paymentservice.RenewalLinker
	}
	payments paymentservice.Store
}

func openStores(ctx context.Context, cfg *config.Server, log *slog.Logger) (*stores, error) {
	if cfg.InMemory() {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		return &stores{
			tx:       txcontext.NewSerialRunner(),
			licences: licencestore.NewInMemory(),
			renewals: renewalstore.NewInMemory(),
			payments: paymentstore.NewInMemory(),
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("connected to postgres", "max_open_conns", cfg.Database.MaxOpenConns)
	return &stores{
		db:       db,
		tx:       postgres.NewTxRunner(db),
		licences: licencestore.NewPostgres(db),
		renewals: renewalstore.NewPostgres(db),
		payments: paymentstore.NewPostgres(db),
	}, nil
}

func newResolver(cfg *config.Server, log *slog.Logger) (*access.Resolver, error) {
	opts := []access.ResolverOption{access.WithLogger(log)}
	if cfg.Auth.JWTSigningKey != "" {
		opts = append(opts, access.WithTokenValidator(jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)))
		log.Info("bearer role tokens enabled", "issuer", cfg.Auth.JWTIssuer)
	}
	return access.NewResolver(cfg.Auth.DriverKey, cfg.Auth.OfficerKey, opts...)
}

func run(ctx context.Context, cfg *config.Server, log *slog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}

	if cfg.LicenceSeedFile != "" {
		licences, err := licencestore.LoadSeedFile(cfg.LicenceSeedFile)
		if err != nil {
			return err
		}
		if _, err := licencestore.Seed(ctx, st.licences, licences, log); err != nil {
			return err
		}
	}

	resolver, err := newResolver(cfg, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)

	licences := licenceservice.New(st.licences,
		licenceservice.WithLogger(log),
		licenceservice.WithMetrics(licencemetrics.New(reg)),
		licenceservice.WithTxRunner(st.tx),
	)
	renewals := renewalservice.New(st.renewals, st.licences,
		renewalservice.WithLogger(log),
		renewalservice.WithMetrics(renewalmetrics.New(reg)),
		renewalservice.WithTxRunner(st.tx),
	)
	payments := paymentservice.New(st.payments, st.renewals,
		paymentservice.WithLogger(log),
		paymentservice.WithMetrics(paymentmetrics.New(reg)),
		paymentservice.WithTxRunner(st.tx),
	)

	deps := httptransport.Dependencies{
		Logger:         log,
		Metrics:        httpMetrics,
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
		Handlers: []httptransport.Registrar{
			licencehandler.New(licences, resolver, log, httpMetrics),
			renewalhandler.New(renewals, resolver, log, httpMetrics),
			paymenthandler.New(payments, resolver, log, httpMetrics),
		},
	}
	if st.db != nil {
		deps.DB = st.db
	}
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(deps), cfg.RequestTimeout)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting renewal-gateway", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
