package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rizkyamr/order-console/internal/config"
	"github.com/rizkyamr/order-console/internal/events"
	"github.com/rizkyamr/order-console/internal/journal"
	"github.com/rizkyamr/order-console/internal/kafkax"
	"github.com/rizkyamr/order-console/internal/postgres"
	"github.com/rizkyamr/order-console/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := migrateUp(cfg); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &journal.Service{
		Repo:        &journal.Repo{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-journal",
		Log:         log,
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.JournalGroup, events.TopicSubmissionOutcome, cfg.JournalWorkers, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"group":   cfg.JournalGroup,
			"topic":   events.TopicSubmissionOutcome,
			"workers": cfg.JournalWorkers,
		}).Info("journal consumer started")
		return cons.Start(gctx, svc.HandleOutcome)
	})
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sig:
			log.Info("shutting down consumer...")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("consumer exit")
	}
}

func migrateUp(cfg config.Config) error {
	m, err := migrate.New(cfg.MigrationsURL, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
