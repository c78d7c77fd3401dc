package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kyc/internal/audit"
	authhandler "kyc/internal/auth/handler"
	authservice "kyc/internal/auth/service"
	resettokenstore "kyc/internal/auth/store/resettoken"
	userstore "kyc/internal/auth/store/user"
	"kyc/internal/evidence/biometric/facematch"
	"kyc/internal/evidence/guard"
	"kyc/internal/evidence/registry/cache"
	"kyc/internal/evidence/registry/finstat"
	"kyc/internal/evidence/registry/orsr"
	kychandler "kyc/internal/kyc/handler"
	kycmetrics "kyc/internal/kyc/metrics"
	kycservice "kyc/internal/kyc/service"
	addressstore "kyc/internal/kyc/store/address"
	beneficiarystore "kyc/internal/kyc/store/beneficiary"
	companystore "kyc/internal/kyc/store/company"
	personstore "kyc/internal/kyc/store/person"
	"kyc/internal/notify"
	"kyc/internal/platform/config"
	"kyc/internal/platform/metrics"
	"kyc/internal/platform/middleware"
	"kyc/internal/platform/postgres"
	kycredis "kyc/internal/platform/redis"
	"kyc/internal/platform/workers"
	ratelimitmw "kyc/internal/ratelimit/middleware"
	ratelimit "kyc/internal/ratelimit/models"
	"kyc/internal/ratelimit/store/bucket"
	"kyc/pkg/platform/circuit"
	"kyc/pkg/platform/httputil"
)

// app owns every long-lived resource the server holds.
type app struct {
	cfg    config.Server
	logger *slog.Logger

	db     *sql.DB
	redis  *kycredis.Client
	pool   *workers.Pool
	kafka  *audit.KafkaPublisher
	router http.Handler

	auth *authservice.Service
}

// buildApp wires stores, collaborators and handlers. Without DATABASE_URL
// every store is in-memory; without REDIS_URL the enrichment cache is local.
func buildApp(ctx context.Context, cfg config.Server, logger *slog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = a.close(context.Background())
		}
	}()

	if cfg.DatabaseURL != "" {
		if a.db, err = postgres.Open(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}
	if a.redis, err = kycredis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.New(reg)

	a.pool = workers.NewPool(cfg.Notify.Workers, cfg.Notify.QueueSize, logger)
	a.pool.Start()

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return nil, err
	}

	publishers := audit.Multi{audit.NewLogPublisher(logger)}
	if len(cfg.Kafka.Brokers) > 0 {
		if a.kafka, err = audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, logger); err != nil {
			return nil, err
		}
		publishers = append(publishers, a.kafka)
	}

	registry, err := orsr.New(cfg.Registry.URL, cfg.Registry.Timeout)
	if err != nil {
		return nil, fmt.Errorf("registry client: %w", err)
	}

	kycSvc := kycservice.New(a.kycStores(),
		kycservice.WithTx(a.kycTx()),
		kycservice.WithFaceMatcher(guard.NewFaceMatcher(
			facematch.New(cfg.FaceMatch.URL, cfg.FaceMatch.Timeout), a.breakerFor("facematch"))),
		kycservice.WithRegistryLookup(guard.NewRegistryLookup(registry, a.breakerFor("orsr"))),
		kycservice.WithEnricher(a.enricher()),
		kycservice.WithNotifier(notifier),
		kycservice.WithDispatcher(a.pool),
		kycservice.WithLogger(logger),
		kycservice.WithMetrics(kycmetrics.New(reg)),
		kycservice.WithAuditPublisher(publishers),
	)

	tokens := authservice.NewTokenService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	a.auth = a.authService(tokens, notifier)

	limiter := a.rateLimiter()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.AccessLog(logger, httpMetrics))

	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	requireAuth := middleware.RequireAuth(a.auth, logger)
	authhandler.New(a.auth, logger,
		authhandler.WithPublicMiddleware(limiter.RateLimit(ratelimit.ClassAuth)),
	).Register(r, requireAuth)
	kychandler.New(kycSvc, logger,
		kychandler.WithPublicMiddleware(limiter.RateLimit(ratelimit.ClassPublic)),
	).Register(r, requireAuth)
	a.router = r

	return a, nil
}

func (a *app) kycStores() kycservice.Stores {
	if a.db == nil {
		return kycservice.Stores{
			Companies:     companystore.NewInMemory(),
			Persons:       personstore.NewInMemory(),
			Beneficiaries: beneficiarystore.NewInMemory(),
			Addresses:     addressstore.NewInMemory(),
		}
	}
	return kycservice.Stores{
		Companies:     companystore.NewPostgres(a.db),
		Persons:       personstore.NewPostgres(a.db),
		Beneficiaries: beneficiarystore.NewPostgres(a.db),
		Addresses:     addressstore.NewPostgres(a.db),
	}
}

func (a *app) kycTx() kycservice.TxRunner {
	if a.db == nil {
		return kycservice.NewShardedTx(a.cfg.TxTimeout)
	}
	return newKYCPostgresTx(postgres.NewTxRunner(a.db, a.cfg.TxTimeout))
}

func (a *app) breakerFor(collaborator string) *guard.Guard {
	return guard.New(circuit.New(collaborator,
		circuit.WithFailureThreshold(a.cfg.Breaker.FailureThreshold),
		circuit.WithCooldown(a.cfg.Breaker.Cooldown),
	), a.logger)
}

// rateLimiter counts in Redis when it is configured so every replica shares
// one window.
func (a *app) rateLimiter() *ratelimitmw.Middleware {
	var store ratelimitmw.Store = bucket.NewInMemoryBucketStore()
	if a.redis != nil {
		store = bucket.NewRedisStore(a.redis.Client)
	}
	rl := a.cfg.RateLimit
	limits := map[ratelimit.EndpointClass]ratelimit.Limit{
		ratelimit.ClassPublic: {Requests: rl.PublicRequests, Window: rl.Window},
		ratelimit.ClassAuth:   {Requests: rl.AuthRequests, Window: rl.Window},
	}
	return ratelimitmw.New(store, limits, a.logger, ratelimitmw.WithDisabled(rl.Disabled))
}

// enricher puts the read-through profile cache in front of the company data
// registry. Cache hits never reach the breaker.
func (a *app) enricher() *cache.Enricher {
	var store cache.Store
	if a.redis != nil {
		store = cache.NewRedisStore(a.redis.Client, a.cfg.Enrichment.CacheTTL)
	} else {
		store = cache.NewLocalStore(a.cfg.Enrichment.CacheTTL)
	}
	client := finstat.New(finstat.Config{
		URL:        a.cfg.Finstat.URL,
		APIKey:     a.cfg.Finstat.APIKey,
		PrivateKey: a.cfg.Finstat.PrivateKey,
		Timeout:    a.cfg.Finstat.Timeout,
	})
	return cache.NewEnricher(guard.NewEnricher(client, a.breakerFor("finstat")), store, a.logger)
}

func (a *app) authService(tokens *authservice.TokenService, notifier *notify.Notifier) *authservice.Service {
	opts := []authservice.Option{
		authservice.WithNotifier(notifier),
		authservice.WithDispatcher(a.pool),
		authservice.WithLogger(a.logger),
		authservice.WithResetTTL(a.cfg.Auth.ResetTokenTTL),
	}
	if a.db == nil {
		return authservice.New(userstore.NewInMemory(), resettokenstore.NewInMemory(), tokens, opts...)
	}
	opts = append(opts, authservice.WithTx(postgres.NewTxRunner(a.db, a.cfg.TxTimeout)))
	return authservice.New(userstore.NewPostgres(a.db), resettokenstore.NewPostgres(a.db), tokens, opts...)
}

// newNotifier sends through SMTP when a relay is configured and logs the
// rendered message otherwise.
func newNotifier(cfg config.Server, logger *slog.Logger) (*notify.Notifier, error) {
	var sender notify.Sender = notify.LogSender{Logger: logger}
	if cfg.SMTP.Host != "" {
		sender = notify.SMTPSender{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		}
	}
	links := notify.Links{VerificationBase: cfg.Links.VerificationBase, ResetBase: cfg.Links.ResetBase}
	n, err := notify.New(sender, cfg.SMTP.From, links, notify.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}
	return n, nil
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res := healthResponse{Status: "ok", Checks: map[string]string{}}
	check := func(name string, err error) {
		if err != nil {
			res.Status = "degraded"
			res.Checks[name] = err.Error()
			return
		}
		res.Checks[name] = "ok"
	}
	if a.db != nil {
		check("postgres", a.db.PingContext(ctx))
	}
	if a.redis != nil {
		check("redis", a.redis.Health(ctx))
	}
	status := http.StatusOK
	if res.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, res)
}

// close drains background work before closing the connections it may use.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.pool != nil {
		errs = append(errs, a.pool.Shutdown(ctx))
	}
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close(ctx))
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
