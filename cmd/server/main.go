package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rostra/internal/compliance"
	compliancehandler "rostra/internal/compliance/handler"
	compliancemetrics "rostra/internal/compliance/metrics"
	certstore "rostra/internal/compliance/store/certification"
	overridestore "rostra/internal/compliance/store/override"
	"rostra/internal/employee"
	employeehandler "rostra/internal/employee/handler"
	httpapi "rostra/internal/http"
	"rostra/internal/jwttoken"
	"rostra/internal/payroll"
	"rostra/internal/platform/config"
	"rostra/internal/platform/httpserver"
	"rostra/internal/platform/logger"
	"rostra/internal/platform/postgres"
	platformredis "rostra/internal/platform/redis"
	"rostra/internal/ratelimit"
	"rostra/pkg/platform/audit"
	auditkafka "rostra/pkg/platform/audit/kafka"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(db); err != nil {
			log.Error("postgres migration failed", "error", err)
			os.Exit(1)
		}
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var auditPublisher audit.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := auditkafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka audit publisher init failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafkaPublisher.Close(ctx); err != nil {
				log.Warn("audit publisher close failed", "error", err)
			}
		}()
		auditPublisher = kafkaPublisher
	}

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		certs     compliance.CertificationStore
		overrides compliance.OverrideStore
		employees employee.Store
	)
	if db != nil {
		certs = certstore.NewPostgres(db)
		overrides = overridestore.NewPostgres(db)
		employees = employee.NewPostgres(db)
	} else {
		log.Warn("postgres not configured, using in-memory stores")
		certs = certstore.New()
		overrides = overridestore.New()
		employees = employee.NewInMemoryStore()
	}

	complianceService, err := compliance.New(certs, overrides,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliancemetrics.New()),
		compliance.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("compliance service init failed", "error", err)
		os.Exit(1)
	}

	employeeService, err := employee.NewService(employees, employee.WithLogger(log))
	if err != nil {
		log.Error("employee service init failed", "error", err)
		os.Exit(1)
	}

	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient.Client)
	} else {
		limiter = ratelimit.NewInMemoryLimiter()
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		JWTValidator:   jwttoken.NewMiddlewareAdapter(jwtService),
		Compliance:     compliancehandler.New(complianceService, log),
		Employees:      employeehandler.New(employeeService, log),
		Payroll:        payroll.NewHandler(payroll.NewEngine(payroll.DefaultLoadings()), log),
		Limiter:        limiter,
		RateLimit:      cfg.RateLimit,
		AuditPublisher: auditPublisher,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting rostra", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
