// cmd/site-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"site-builder/internal/api"
	awsclient "site-builder/internal/common/aws"
	"site-builder/internal/common/config"
	"site-builder/internal/common/database"
	"site-builder/internal/common/logger"
	"site-builder/internal/common/observability"
	"site-builder/internal/common/telegram"
	slotgenerator "site-builder/internal/services/booking/slot-generator"
	leadrelay "site-builder/internal/services/leads/lead-relay"
	submitlead "site-builder/internal/services/leads/submit-lead"
	reputationgate "site-builder/internal/services/reputation/reputation-gate"
	configstore "site-builder/internal/services/site/config-store"
	exportsite "site-builder/internal/services/site/export-site"
	generateimage "site-builder/internal/services/site/generate-image"
)

// retryWithBackoff retries operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Output:   cfg.Logging.Output,
		FilePath: cfg.Logging.FilePath,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting site server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("storage", cfg.Storage.Backend),
	)

	obs := observability.New("site-server")
	defer obs.Shutdown()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	if cfg.Database.Redis.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	if cfg.Relay.Enabled && cfg.Database.Postgres.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			zapLog.Fatal("lead archive migration failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Config store ---
	var redisClient *redis.Client
	if rdb != nil {
		redisClient = rdb.GetClient()
	}
	persister, err := configstore.NewPersister(cfg.Storage, redisClient)
	if err != nil {
		zapLog.Fatal("config persister", zap.Error(err))
	}
	store := configstore.New(persister, log)
	if err := store.Load(ctx); err != nil {
		zapLog.Fatal("config store load failed", zap.Error(err))
	}

	// --- Lead gateway ---
	gatewayConfig := submitlead.LoadConfig(cfg)
	gatewayOpts := []submitlead.Option{submitlead.WithRecorder(obs)}
	if redisClient != nil && gatewayConfig.DedupeWindow > 0 {
		gatewayOpts = append(gatewayOpts, submitlead.WithDeduper(submitlead.NewRedisDeduper(redisClient)))
	}
	gateway := submitlead.NewGateway(gatewayConfig, log, gatewayOpts...)
	if gatewayConfig.WebhookURL == "" {
		zapLog.Warn("webhook URL is not configured; lead submissions will fail")
	}

	sessions := reputationgate.NewSessions(store, gateway, config.GetDuration(cfg.Reputation.SessionTTL), log)
	go sessions.Run(ctx, time.Minute)

	// --- Lead relay ---
	var relay *leadrelay.Relay
	if cfg.Relay.Enabled {
		relay, err = newRelay(ctx, cfg, pg, log)
		if err != nil {
			zapLog.Fatal("lead relay init failed", zap.Error(err))
		}
		zapLog.Info("Lead relay enabled on /hooks/lead")
	}

	server := api.NewServer(api.Deps{
		Store:    store,
		Slots:    slotgenerator.NewService(store, time.Now, log),
		Gateway:  gateway,
		Sessions: sessions,
		Images:   generateimage.NewGenerator(generateimage.LoadConfig(cfg), log),
		Exporter: exportsite.NewExporter(exportsite.LoadConfig(cfg), nil, log),
		Relay:    relay,
		Ready: func(ctx context.Context) error {
			if rdb != nil {
				if err := rdb.Ping(ctx); err != nil {
					return err
				}
			}
			if pg != nil {
				return pg.Ping(ctx)
			}
			return nil
		},
	}, api.Options{
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RateLimitBurst:     cfg.Server.RateLimitBurst,
		WebhookConfigured:  gatewayConfig.WebhookURL != "",
		AdminToken:         cfg.Server.AdminToken,
		HookSecret:         cfg.Webhook.Secret,
	}, log)
	if cfg.Server.AdminToken == "" {
		zapLog.Warn("server.admin_token is empty; config writes, image generation and export are unauthenticated")
	}
	go server.Limiter().Run(ctx, time.Minute, 10*time.Minute)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.Handler(),
		ReadTimeout:       config.GetDuration(cfg.Server.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Site server stopped gracefully")
}

func newRelay(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, log logger.Logger) (*leadrelay.Relay, error) {
	var opts []leadrelay.Option

	if cfg.Integrations.AWS.SES.Enabled {
		ses, err := awsclient.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		opts = append(opts, leadrelay.WithEmailSender(ses))
	}
	if cfg.Integrations.AWS.SNS.Enabled {
		sns, err := awsclient.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		opts = append(opts, leadrelay.WithSMSSender(sns))
	}
	if cfg.Integrations.Telegram.Enabled && cfg.Integrations.Telegram.BotToken != "" {
		bot, err := telegram.NewClient(cfg.Integrations.Telegram.BotToken)
		if err != nil {
			return nil, fmt.Errorf("telegram client: %w", err)
		}
		opts = append(opts, leadrelay.WithTelegramSender(bot))
	}

	if pg == nil {
		return leadrelay.NewRelay(leadrelay.LoadConfig(cfg), nil, log, opts...), nil
	}
	return leadrelay.NewRelay(leadrelay.LoadConfig(cfg), pg.DB, log, opts...), nil
}
