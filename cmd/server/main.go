package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/adapters/auth"
	"github.com/vncsmyrnk/pollspark/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollspark/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/pollspark/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollspark/internal/config"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
	"github.com/vncsmyrnk/pollspark/internal/core/services"
	"github.com/vncsmyrnk/pollspark/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatal("load config", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Server.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
	}

	pollsLimiter, voteLimiter := newLimiters(ctx, cfg, log)

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	tokens := auth.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	hasher := auth.NewBcryptHasher(0)

	pollService := services.NewPollService(pollRepo)
	voteService := services.NewVoteService(pollRepo, voteRepo, ports.VotePolicy(cfg.Vote.Policy))
	resultsService := services.NewResultsService(pollRepo)
	userService := services.NewUserService(userRepo, pollRepo)
	authService := services.NewAuthService(userRepo, authRepo, tokens, hasher, cfg.JWT.RefreshTokenTTL)

	handler := http.NewHandler(http.RouterConfig{
		Logger:         log,
		Tokens:         tokens,
		PollsLimiter:   pollsLimiter,
		VoteLimiter:    voteLimiter,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		TrustProxy:     cfg.Server.TrustProxy,
	}, http.Handlers{
		Polls: http.NewPollHandler(pollService, log),
		Votes: http.NewVoteHandler(voteService, resultsService, log),
		Auth: http.NewAuthHandler(authService, http.CookieConfig{
			Secure:          !cfg.IsDevelopment(),
			SameSite:        stdhttp.SameSiteLaxMode,
			AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
			RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		}, log),
		Users: http.NewUserHandler(userService, log),
	})

	server := &stdhttp.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("vote_policy", cfg.Vote.Policy),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// newLimiters shares counters through Redis when REDIS_ADDR is set and
// otherwise keeps them in process memory.
func newLimiters(ctx context.Context, cfg *config.Config, log *zap.Logger) (ports.RateLimiter, ports.RateLimiter) {
	rl := cfg.RateLimit
	if cfg.Redis.Addr == "" {
		log.Info("using in-memory rate limiter")
		return ratelimit.NewMemoryLimiter(rl.DefaultLimit, rl.Window), ratelimit.NewMemoryLimiter(rl.VoteLimit, rl.Window)
	}

	rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	log.Info("redis client connected", zap.String("addr", cfg.Redis.Addr))
	return ratelimit.NewRedisLimiter(rdb, rl.DefaultLimit, rl.Window), ratelimit.NewRedisLimiter(rdb, rl.VoteLimit, rl.Window)
}
