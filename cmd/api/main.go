package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Raees-J/DockIt/cmd/api/router"
	"github.com/Raees-J/DockIt/internal/config"
	cacheadapter "github.com/Raees-J/DockIt/internal/infrastructure/cache/adapter"
	"github.com/Raees-J/DockIt/internal/infrastructure/database"
	queueadapter "github.com/Raees-J/DockIt/internal/infrastructure/queue/adapter"
	"github.com/Raees-J/DockIt/internal/infrastructure/realtime"
	"github.com/Raees-J/DockIt/internal/logger"
	"github.com/Raees-J/DockIt/internal/pkg/auth"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/task"
	msgadapter "github.com/Raees-J/DockIt/internal/pkg/chat/persistence/repository/adapter"
	diradapter "github.com/Raees-J/DockIt/internal/repository/adapter"
	dirport "github.com/Raees-J/DockIt/internal/repository/port"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	log = log.With().Str("service", cfg.ServiceName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	var users dirport.UserRepository = diradapter.NewPgUserRepository(pool)
	projects := diradapter.NewPgProjectRepository(pool)
	messages := msgadapter.NewPgMessageRepository(pool)
	dms := msgadapter.NewPgDirectMessageRepository(pool)

	// Redis backs the user cache and the notification queue; both are
	// optional and the service runs without them.
	var queue *queueadapter.AsynqClient
	if cfg.RedisURL != "" {
		cache, err := cacheadapter.NewRedisAdapter(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer cache.Close()
		users = diradapter.NewCachedUserRepository(users, cache, cfg.UserCacheTTL, log)

		queue, err = queueadapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect asynq")
		}
		defer queue.Close()

		worker, err := queueadapter.NewAsynqServer(cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("start asynq worker")
		}
		task.RegisterNotifyMessageTask(worker, pool)
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Error().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		log.Warn().Msg("REDIS_URL not set: user cache and notifications disabled")
	}

	registry := realtime.NewRegistry()
	rooms := realtime.NewRouter(registry, log)
	typing := realtime.NewTypingTracker(cfg.TypingTimeout)

	var core *session.Core
	if queue != nil {
		core = session.New(rooms, typing, messages, dms, users, projects, queue, log)
	} else {
		core = session.New(rooms, typing, messages, dms, users, projects, nil, log)
	}

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.RegisterRoutes(r, core, registry, verifier, log)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
