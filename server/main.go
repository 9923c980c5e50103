package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"reservio/api/routes"
	"reservio/internal/notifications"
	"reservio/internal/promotion"
	"reservio/internal/shared/config"
	"reservio/internal/shared/database"
	"reservio/internal/shared/validation"
	"reservio/pkg/logger"
	"reservio/pkg/ratelimit"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := validation.Register(); err != nil {
		appLogger.Error("failed to register validators", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to initialize storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
	}

	// Outbound notification pipeline. The API keeps serving when the
	// broker is down; dispatches are skipped and logged.
	var enqueuer promotion.NotificationEnqueuer
	producer, err := notifications.NewKafkaProducer(
		notifications.DefaultKafkaProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic),
	)
	if err != nil {
		appLogger.Error("notification producer unavailable", slog.Any("error", err))
	} else {
		enqueuer = producer
		defer producer.Close()
	}

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	if consumer := startNotificationConsumer(consumerCtx, cfg, appLogger); consumer != nil {
		defer consumer.Stop()
	}

	engine := setupEngine(cfg, rateLimiter)
	appRouter := routes.NewRouter(cfg, db, enqueuer)
	appRouter.SetupRoutes(engine)

	// Expiry and promotion sweeps on timers.
	jobCtx, jobCancel := context.WithCancel(context.Background())
	defer jobCancel()
	jobs := promotion.NewJobProcessor(appRouter.PromotionService(), &promotion.JobConfig{
		ExpirySweepInterval:    cfg.Sweeps.ExpiryInterval,
		PromotionSweepInterval: cfg.Sweeps.PromotionInterval,
	})
	jobs.Start(jobCtx)
	defer jobs.Stop()

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		appLogger.Info("server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("api_base", cfg.GetAPIBasePath()),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("notifications", enqueuer != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("server exited")
}

func startNotificationConsumer(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) notifications.Consumer {
	if cfg.Email.SMTPHost == "" {
		appLogger.Info("SMTP not configured, notification consumer disabled")
		return nil
	}

	sender, err := notifications.NewSMTPSender(&notifications.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    true,
	})
	if err != nil {
		appLogger.Error("smtp sender unavailable", slog.Any("error", err))
		return nil
	}

	consumer, err := notifications.NewKafkaConsumer(
		notifications.DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic),
		sender,
	)
	if err != nil {
		appLogger.Error("notification consumer unavailable", slog.Any("error", err))
		return nil
	}

	if err := consumer.Start(ctx, cfg.Kafka.ConsumerWorkers); err != nil {
		appLogger.Error("failed to start notification workers", slog.Any("error", err))
		return nil
	}
	return consumer
}

func setupEngine(cfg *config.Config, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(requestLogger(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	return engine
}

func requestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
