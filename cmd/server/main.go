package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	apphandler "eregister/internal/application/handler"
	appservice "eregister/internal/application/service"
	appstore "eregister/internal/application/store"
	"eregister/internal/audit"
	authhandler "eregister/internal/auth/handler"
	"eregister/internal/auth/jwttoken"
	authservice "eregister/internal/auth/service"
	authstore "eregister/internal/auth/store"
	"eregister/internal/auth/store/revocation"
	"eregister/internal/biometric"
	"eregister/internal/blobstore"
	"eregister/internal/credential"
	"eregister/internal/platform/config"
	"eregister/internal/platform/httpserver"
	"eregister/internal/platform/logger"
	"eregister/internal/platform/metrics"
	"eregister/internal/platform/middleware"
	platformredis "eregister/internal/platform/redis"
	httptransport "eregister/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages; nothing here makes decisions.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	detector, err := biometric.NewDetectorFromFile(cfg.CascadeFile)
	if err != nil {
		fatal(log, "load face cascade", err)
	}
	gate := biometric.NewGate(detector, m)

	blobs, err := blobstore.NewFS(cfg.UploadDir)
	if err != nil {
		fatal(log, "init upload dir", err)
	}

	health := map[string]httptransport.HealthChecker{}

	var (
		appRecords appstore.ApplicationStore = appstore.NewInMemory()
		users      authstore.UserStore      = authstore.NewInMemory()
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal(log, "connect postgres", err)
		}
		defer pool.Close()
		for _, schema := range []string{appstore.Schema, authstore.Schema} {
			if _, err := pool.Exec(ctx, schema); err != nil {
				fatal(log, "apply schema", err)
			}
		}
		appRecords = appstore.NewPostgres(pool)
		users = authstore.NewPostgres(pool)
		health["postgres"] = pgHealth{pool}
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var revocations middleware.TokenRevocationChecker
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		fatal(log, "connect redis", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedisTRL(redisClient.Client)
		health["redis"] = redisClient
		log.Info("token revocation list enabled")
	}

	var auditSink audit.Store = audit.NewInMemoryStore()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, audit.DefaultTopic)
		if err != nil {
			fatal(log, "connect kafka", err)
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
		log.Info("kafka audit sink enabled", "topic", audit.DefaultTopic)
	}
	inbox := make(chan audit.Event, 256)
	auditWorker := audit.NewWorker(auditSink, inbox, log)
	go func() {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	authSvc := authservice.New(users)
	appSvc := appservice.New(
		log,
		appRecords,
		blobs,
		gate,
		credential.New(blobs, cfg.PublicBaseURL),
		audit.NewChannelPublisher(inbox),
		m,
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        m,
		Validator:      jwttoken.NewJWTServiceAdapter(tokens),
		Revocations:    revocations,
		Roles:          authSvc,
		Applications:   apphandler.New(appSvc, log),
		Identity:       authhandler.New(authSvc, log),
		RequestTimeout: 30 * time.Second,
		Dependencies:   health,
	})

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
}

// pgHealth adapts a pgx pool to the health checker contract.
type pgHealth struct {
	pool *pgxpool.Pool
}

func (p pgHealth) Health(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
