package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coverage-bot/internal/bot"
	"coverage-bot/internal/catalog"
	"coverage-bot/internal/config"
	"coverage-bot/internal/dialog"
	"coverage-bot/internal/health"
	"coverage-bot/internal/storage"
	"coverage-bot/internal/storage/memory"
	redisstore "coverage-bot/internal/storage/redis"
	"coverage-bot/pkg/logger"
	"coverage-bot/pkg/redis"
)

func main() {
	rollback := flag.Bool("rollback", false, "roll back the last history migration and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.BotDebug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log, *rollback); err != nil {
		log.Fatal("Bot stopped with error", zap.Error(err))
	}
	log.Info("Bot shutdown gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, rollback bool) error {
	cat, err := catalog.Load(cfg.CatalogRevision)
	if err != nil {
		return err
	}
	log.Info("Catalog loaded", zap.String("revision", string(cat.Revision())))

	checks := map[string]health.Check{}

	var redisClient *redis.Client
	var sessions bot.SessionStore = memory.New()
	if cfg.RedisAddr != "" {
		redisClient, err = redis.Connect(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		store := redisstore.New(redisClient, cfg.RedisTTL)
		sessions = store
		checks["sessions"] = store.Ping
	} else {
		log.Warn("REDIS_ADDR is empty, sessions are kept in memory")
	}

	var history bot.History
	if cfg.Database.Enabled() {
		var cache storage.Cache
		if redisClient != nil {
			cache = redisClient
		}
		pg, err := storage.NewPostgresStorage(ctx, cfg.Database, cache, log)
		if err != nil {
			return err
		}
		defer pg.Close()

		if rollback {
			return storage.RollbackMigration(ctx, pg.DB().DB, log)
		}
		if err := storage.RunMigrations(ctx, pg.DB().DB, log); err != nil {
			return err
		}
		history = pg
		checks["history"] = pg.Ping
	} else if rollback {
		return fmt.Errorf("rollback requested but DB_HOST is not set")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = cfg.BotDebug
	log.Info("Bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID))

	machine := dialog.NewMachine(cat)
	b := bot.New(api, machine, sessions, log, bot.Options{
		History:    history,
		AdminIDs:   cfg.AdminIDs,
		ReportsDir: cfg.ReportsDir,
		Workers:    cfg.Workers,
	})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(gctx, updates)
	})
	g.Go(func() error {
		return health.New(cfg.Port, checks, log).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		api.StopReceivingUpdates()
		return nil
	})
	return g.Wait()
}
