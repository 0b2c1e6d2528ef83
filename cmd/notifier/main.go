package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/config"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/consumer"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/sender"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.LoadNotifier(log)

	emailSender := sender.NewEmailSender(cfg)

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("no kafka brokers configured (KAFKA_BROKERS)")
	}

	cons := consumer.NewOrderEventConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic, cfg.ShopInbox, emailSender, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Run возвращается только после обработки текущего сообщения,
	// поэтому начатая отправка письма успевает завершиться.
	g.Go(func() error {
		log.Info("notifier started", zap.String("topic", cfg.KafkaTopic), zap.String("group", cfg.KafkaGroupID))
		return cons.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("consumer stopped with error", zap.Error(err))
	}
	if err := cons.Close(); err != nil {
		log.Warn("close kafka reader", zap.Error(err))
	}
	log.Info("notifier stopped")
}
