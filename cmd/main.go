package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/docs"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/app"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/config"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/gallery"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/gateway"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/handler"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/notify"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/postgres"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/repo"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/service"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/cache"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/storage"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Cleopatra Regalos Checkout API
// @version         1.0
// @description     Cart, checkout and order HTTP API
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	store, err := storage.New(conf.Storage.Path, conf.Storage.MaxBytes)
	panicIfErr("failed to open local storage", err)

	orderRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)

	orderService := service.NewOrderService(logger, txManager, orderRepo, orderCache, conf.Checkout)
	cartService := service.NewCartService(logger, store, conf.Storage.CartTTL)
	galleryService := gallery.NewService(logger, store)

	gw, err := gateway.New(logger, conf.Payment)
	panicIfErr("failed to create payment gateway", err)
	publisher := notify.NewPublisher(logger, conf.Kafka)
	defer publisher.Close()

	checkoutService := service.NewCheckoutService(
		logger, store, cartService, orderService, gw, publisher,
		conf.Notify.WhatsAppPhone, conf.Storage.SessionTTL,
	)

	kafkaHandler := handler.NewKafkaHandler(logger, conf.Kafka, orderService)
	httpHandler := handler.NewHTTPHandler(logger, cartService, checkoutService, orderService, galleryService)
	handler.RegisterMetrics()

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler)
	app.SetConsumers(kafkaHandler)
	app.SetStarters(store, orderCache, cacheWarmUpAdapter{svc: orderService, count: conf.Cache.Capacity})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type warmUpper interface {
	WarmUpCache(ctx context.Context, count int) error
}

type cacheWarmUpAdapter struct {
	svc   warmUpper
	count int
}

func (a cacheWarmUpAdapter) Start(ctx context.Context) error {
	return a.svc.WarmUpCache(ctx, a.count)
}
