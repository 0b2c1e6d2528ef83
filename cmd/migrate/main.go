package main

import (
	"context"
	"os"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/config"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/migrate"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/pkg/database"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDBForMigration(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	ctx := context.Background()

	opts := migrate.DefaultMigrateOptions()

	if err := migrate.MigrateShopDB(ctx, db, log, opts); err != nil {
		log.Fatal("Ошибка при выполнении миграции", zap.Error(err))
	}

	log.Info("Миграция успешно завершена")
}
