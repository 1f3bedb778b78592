package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/config"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/handlers"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/hub"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/metrics"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/middleware"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/services"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
	"github.com/vardhman18/tachyon-war-for-treasure-25/telegram"
)

const (
	shutdownTimeout = 10 * time.Second
	poolStatsPeriod = 15 * time.Second
)

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m := metrics.NewMetrics()

	h := hub.New(hub.Options{
		SendBuffer:       cfg.WSSendBuffer,
		MaxMessageSize:   cfg.WSMaxMessage,
		PingInterval:     cfg.WSPingInterval,
		AllowedOrigin:    cfg.AllowedOrigin,
		RequireOrganizer: cfg.OrganizerAuth,
		Authorize: func(token string) bool {
			return security.IsOrganizer(token, cfg.JWTSecret)
		},
		Metrics: m,
	})
	defer h.Close()

	teamRepo := repositories.NewTeamRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	progressRepo := repositories.NewProgressRepository(db)

	var mirror services.HintMirror
	var bot *telegram.Bot
	if cfg.TelegramBotToken != "" {
		bot, err = telegram.InitBot(cfg)
		if err != nil {
			return err
		}
		mirror = bot
	}

	ranking := services.NewRankingService(teamRepo, questionRepo, progressRepo)
	locks := services.NewLockService(teamRepo, h)
	hints := services.NewHintService(repositories.NewHintRepository(db), h, mirror)
	dispatcher := services.NewCommandDispatcher(locks, hints)
	h.SetHandler(dispatcher)

	if bot != nil {
		go bot.Listen(ctx, dispatcher)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerTeam, cfg.RateLimitPerIP, cfg.RateLimitWindow)
	defer limiter.Stop()

	manager := handlers.NewHandlerManager(cfg, handlers.Dependencies{
		Teams:     services.NewTeamService(teamRepo, security.NewBcryptVerifier(), cfg.JWTSecret),
		Questions: services.NewQuestionService(teamRepo, questionRepo, progressRepo),
		Answers:   services.NewAnswerService(teamRepo, questionRepo, progressRepo, m),
		Locks:     locks,
		Ranking:   ranking,
		Hints:     hints,
		Admin:     services.NewAdminService(repositories.NewWipeRepository(db), ranking),
		Hub:       h,
		Limiter:   limiter,
		Metrics:   m,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.NewRouter(manager),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	go func() {
		ticker := time.NewTicker(poolStatsPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.RecordDBPoolStats(sqlDB.Stats())
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", srv.Addr, "env", cfg.AppEnv, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
