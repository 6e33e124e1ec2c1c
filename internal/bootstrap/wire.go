package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/deskhive/deskhive/internal/application/auth"
	"github.com/deskhive/deskhive/internal/application/listing"
	"github.com/deskhive/deskhive/internal/audit"
	"github.com/deskhive/deskhive/internal/config"
	"github.com/deskhive/deskhive/internal/infrastructure/db/postgres"
	"github.com/deskhive/deskhive/internal/infrastructure/memory"
	rabbitmq_pub "github.com/deskhive/deskhive/internal/infrastructure/messaging/rabbitmq"
	"github.com/deskhive/deskhive/internal/infrastructure/redis"
	"github.com/deskhive/deskhive/internal/infrastructure/security"
	"github.com/deskhive/deskhive/internal/logger"
	http_handlers "github.com/deskhive/deskhive/internal/transport/http/handlers"
	"github.com/deskhive/deskhive/internal/transport/http/middleware"
	"github.com/deskhive/deskhive/internal/transport/http/response"
	"github.com/deskhive/deskhive/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string) (DBCloser, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewSender func(rabbitURL string) (Sender, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type DBCloser interface {
	Close() error
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Sender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	// 2) repos
	sqlDB, ok := db.(*sql.DB)
	if !ok {
		runCleanup(cleanupFns)
		return nil, nil, errors.New("bootstrap: NewDB did not return *sql.DB")
	}

	userRepo := postgres.NewUserRepo(sqlDB)
	workspaceRepo := postgres.NewWorkspaceRepo(sqlDB)

	// 3) redis (best-effort)
	var redisCli RedisClient
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, "", 0)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 4) reset-code delivery
	sender, err := deps.NewSender(cfg.RabbitURL)
	if err != nil {
		if cfg.Env == "dev" {
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; logging reset codes instead")
			sender = memory.NewLogSender()
		} else {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	if c, ok := sender.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 5) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, "deskhive")
	codes := security.NewResetCodeGenerator()

	// 6) services
	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		codes,
		sender,
		auth.Config{
			SessionTTL:   cfg.SessionTokenTTL,
			ResetCodeTTL: cfg.ResetCodeTTL,
		},
	).WithAudit(audit.New(logger.Logger))

	listingSvc := listing.NewService(workspaceRepo)

	// 7) handlers + middleware
	secureCookies := cfg.Env != "dev"

	authH := http_handlers.NewAuthHandler(authSvc, cfg.SessionTokenTTL, secureCookies)
	userH := http_handlers.NewUserHandler(authSvc)
	workspaceH := http_handlers.NewWorkspaceHandler(listingSvc)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(signer, secureCookies, response.WriteError)
	adminMW := middleware.RequireAdmin(response.WriteError)

	// rate limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli.(*redis.Client))
	}

	rl := func(key string, limit int, window time.Duration) func(http.Handler) http.Handler {
		if fwLimiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   window,
			},
			response.WriteError,
		)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:     healthH,
		Auth:       authH,
		Users:      userH,
		Workspaces: workspaceH,

		RequestIDMW: middleware.RequestID,
		AuthMW:      authMW,
		AdminMW:     adminMW,

		LoginLimitMW: rl("login", 5, time.Minute),
		ResetLimitMW: rl("reset", 3, 10*time.Minute),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(dsn string) (DBCloser, error) {
			return config.NewDB(dsn)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewSender: func(url string) (Sender, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
