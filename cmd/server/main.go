// aura is a session gateway: it fronts the application backend's identity
// endpoints, caches session resolutions, resolves mobile login callbacks,
// and serves the admin session surface.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	adminpkg "aura/internal/admin"
	"aura/internal/audit"
	"aura/internal/authurl"
	"aura/internal/backend"
	"aura/internal/callback"
	"aura/internal/environment"
	"aura/internal/jwttoken"
	"aura/internal/platform/config"
	"aura/internal/platform/httpserver"
	"aura/internal/platform/logger"
	"aura/internal/platform/metrics"
	platformredis "aura/internal/platform/redis"
	sessionhandler "aura/internal/session/handler"
	sessionservice "aura/internal/session/service"
	sessionstore "aura/internal/session/store"
	"aura/internal/token"
	httptransport "aura/internal/transport/http"
	"aura/pkg/platform/circuit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("redis connected")
	}

	// Store selection: Redis when configured, in-memory otherwise.
	var (
		snapshots sessionstore.SnapshotStore
		tokens    token.Store
	)
	if redisClient != nil {
		// Snapshots are retained in Redis well past the staleness window so
		// a transient failure can still fall back on the last principal.
		snapshots = sessionstore.NewRedis(redisClient.Client, 24*time.Hour)
		tokens = token.NewRedis(redisClient.Client)
	} else {
		snapshots = sessionstore.NewMemory()
		tokens = token.NewMemory()
	}

	var auditStore audit.Store = audit.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("database open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pgStore := audit.NewPostgresStore(db)
		if err := pgStore.Migrate(context.Background()); err != nil {
			log.Error("audit migration failed", "error", err)
			os.Exit(1)
		}
		auditStore = pgStore
		log.Info("audit trail persisted to postgres")
	}
	auditor := audit.NewPublisher(auditStore, log)
	classifier := environment.NewStatic(cfg.EmbeddedHostnames, cfg.EmbeddedUAMarkers)
	backendClient := backend.New(cfg.BackendBaseURL, backend.WithLogger(log))

	sessions := sessionservice.New(backendClient, snapshots,
		cfg.SessionTTL, cfg.SessionCheckTimeout,
		sessionservice.WithLogger(log),
		sessionservice.WithMetrics(m),
		sessionservice.WithAuditPublisher(auditor),
		sessionservice.WithBreaker(circuit.New("backend")),
	)

	adminCache := sessionservice.New(adminpkg.Fetcher(backendClient), snapshots,
		cfg.SessionTTL, cfg.SessionCheckTimeout,
		sessionservice.WithLogger(log),
	)
	adminService := adminpkg.New(backendClient, adminCache, tokens,
		adminpkg.WithLogger(log),
		adminpkg.WithMetrics(m),
		adminpkg.WithAuditPublisher(auditor),
	)

	resolverOpts := []callback.Option{
		callback.WithLogger(log),
		callback.WithMetrics(m),
		callback.WithAuditPublisher(auditor),
	}
	if cfg.JWTSigningKey != "" {
		resolverOpts = append(resolverOpts, callback.WithJWTService(jwttoken.NewService(cfg.JWTSigningKey)))
	}
	resolver := callback.New(backendClient, tokens, sessions, classifier,
		cfg.CallbackSettleDelay, resolverOpts...)

	deps := httptransport.Deps{
		Logger:         log,
		Metrics:        m,
		Classifier:     classifier,
		AuthURL:        authurl.NewBuilder(),
		Devices:        environment.NewDeviceService(true),
		Audit:          auditor,
		Sessions:       sessionhandler.New(sessions, log),
		Callback:       callback.NewHandler(resolver),
		Admin:          adminpkg.NewHandler(adminService, log),
		AdminTokenHash: cfg.AdminTokenHash,
		RequestTimeout: cfg.SessionCheckTimeout + cfg.CallbackSettleDelay + 5*time.Second,
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}
	router := httptransport.NewRouter(deps)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("aura gateway listening", "addr", cfg.Addr, "backend", cfg.BackendBaseURL)
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
