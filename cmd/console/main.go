package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rizkyamr/order-console/internal/backend"
	"github.com/rizkyamr/order-console/internal/category"
	"github.com/rizkyamr/order-console/internal/config"
	"github.com/rizkyamr/order-console/internal/events"
	"github.com/rizkyamr/order-console/internal/httpx"
	"github.com/rizkyamr/order-console/internal/journal"
	"github.com/rizkyamr/order-console/internal/kafkax"
	"github.com/rizkyamr/order-console/internal/notify"
	"github.com/rizkyamr/order-console/internal/postgres"
	"github.com/rizkyamr/order-console/internal/prefs"
	"github.com/rizkyamr/order-console/internal/redisx"
	"github.com/rizkyamr/order-console/internal/resolution"
	"github.com/rizkyamr/order-console/internal/stock"
	"github.com/rizkyamr/order-console/internal/submit"
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

	// DB (journal reads for the reports page)
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for submission outcomes
	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicSubmissionOutcome, 1024, log)
	prod.Start(ctx)

	// Upstream client & workflow wiring
	api := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout)
	orch := &submit.Orchestrator{
		Stock: &stock.Checker{API: api, Redis: rdb, TTL: redisx.TTLStockCheck},
		API:   api,
		Log:   log,
	}
	notifier := &notify.Notifier{Producer: prod, Service: cfg.ServiceName, Log: log}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Orchestrator: orch,
		Sessions:     &resolution.Store{Redis: rdb, TTL: redisx.TTLResolution},
		Notifier:     notifier,
	}
	oh.Register(router)

	ch := &httpx.ConsoleHandler{
		Categories: &category.Loader{Source: api, Redis: rdb, TTL: redisx.TTLCategoryTree},
		Prefs:      &prefs.Store{Redis: rdb},
		Journal:    &journal.Repo{DB: db},
	}
	ch.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop accepting -> flush & close writer
	cancel()     // stop producer loop
	prod.WaitClosed()
}
