package cmd

import (
	"context"
	"fmt"
	"time"

	"economy/api"
	"economy/application"
	"economy/bot"
	"economy/config"
	"economy/database"
	"economy/events"
	"economy/infrastructure"
	"economy/infrastructure/observability"
	"economy/repository"
	"economy/service"

	log "github.com/sirupsen/logrus"
)

// lockTTL bounds how long a crashed instance can hold an account lock in Redis
const lockTTL = 30 * time.Second

// core is the ledger and the infrastructure it runs on
type core struct {
	db      *database.DB
	bus     *events.Bus
	metrics *observability.MetricsProvider
	nats    *infrastructure.NATSClient
	redis   *infrastructure.RedisAccountLocker
	rewards *service.RewardEngine
	ledger  *application.Ledger
}

// newCore connects storage, wires events, metrics and locks, and builds the ledger facade
func newCore(ctx context.Context, cfg *config.Config) (*core, error) {
	c := &core{}

	log.Info("Connecting to database...")
	db, err := database.NewConnectionWithOptions(ctx, cfg.GetDatabaseURL(), database.Options{
		StatementTimeout: cfg.StorageTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.db = db

	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		c.close(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database connection established successfully")

	c.bus = events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, c.bus)

	c.metrics = observability.NewMetricsProvider(cfg)
	if err := c.metrics.Initialize(ctx); err != nil {
		c.close(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	c.metrics.AttachEventMetrics(c.bus)

	if cfg.NATSEnabled {
		c.nats = infrastructure.NewNATSClient(cfg.NATSServers)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := c.nats.Connect(connectCtx)
		cancel()
		if err != nil {
			c.close(ctx)
			return nil, err
		}

		mapper := infrastructure.NewEventSubjectMapper()
		if err := c.nats.EnsureStream(infrastructure.EconomyStreamName, mapper.StreamSubjects()); err != nil {
			c.close(ctx)
			return nil, err
		}
		infrastructure.NewNATSEventForwarder(c.nats, mapper, c.metrics).Attach(c.bus)
		log.Info("Forwarding ledger events to NATS")
	}

	var locker application.AccountLocker
	switch cfg.LockBackend {
	case "redis":
		c.redis, err = infrastructure.NewRedisAccountLocker(ctx, infrastructure.RedisLockerConfig{
			Addr:          cfg.RedisAddr,
			Password:      cfg.RedisPassword,
			DB:            cfg.RedisDB,
			TTL:           lockTTL,
			RetryInterval: 25 * time.Millisecond,
		})
		if err != nil {
			c.close(ctx)
			return nil, err
		}
		locker = c.redis
		log.WithField("addr", cfg.RedisAddr).Info("Using Redis account locks")
	default:
		locker = infrastructure.NewMemoryAccountLocker()
	}

	c.rewards = service.NewRewardEngine(service.NewTimeSeededRandomSource(), cfg.DailyAmount)
	c.ledger = application.NewLedger(uowFactory, locker, c.rewards, service.SystemClock{}, c.metrics, application.LedgerConfig{
		StorageTimeout: cfg.StorageTimeout,
		DuelExpiry:     cfg.DuelExpiry,
	})
	return c, nil
}

// close releases everything newCore opened, in reverse order
func (c *core) close(ctx context.Context) {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.WithError(err).Warn("Error closing Redis locker")
		}
	}
	if c.nats != nil {
		if err := c.nats.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS connection")
		}
	}
	if c.metrics != nil {
		if err := c.metrics.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Error shutting down metrics")
		}
	}
	if c.db != nil {
		log.Info("Closing database connection...")
		c.db.Close()
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	SetupLogging(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting economy bot...")

	c, err := newCore(ctx, cfg)
	if err != nil {
		return err
	}

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:         cfg.DiscordToken,
		GuildID:       cfg.GuildID,
		CurrencyName:  cfg.CurrencyName,
		PassiveIncome: cfg.PassiveIncomeEnabled,
	}, c.ledger, c.rewards)
	if err != nil {
		c.close(context.Background())
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	server := api.NewServer(cfg.HTTPAddr, api.NewRouter(api.Config{
		Ledger:      c.ledger,
		DB:          c.db,
		AdminAPIKey: cfg.AdminAPIKey,
	}))
	server.Start()

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}
	c.close(shutdownCtx)

	log.Info("Shutdown completed")
	return nil
}
