package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/config"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/cleanup"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"
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

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	cleanupSvc := cleanup.NewCleanupService(repos.TokenCounters, cfg.Cleanup.RetainDays, log)

	ctx := context.Background()

	mode := "all"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	switch mode {
	case "tokens":
		log.Info("running token counters cleanup")
		if _, err := cleanupSvc.PruneTokenCounters(ctx); err != nil {
			log.Fatal("failed to prune token counters", zap.Error(err))
		}
	case "all":
		log.Info("running full cleanup")
		if err := cleanupSvc.RunFullCleanup(ctx); err != nil {
			log.Fatal("failed to run full cleanup", zap.Error(err))
		}
	default:
		fmt.Println("Usage: go run cmd/cleanup/main.go [tokens|all]")
		fmt.Println("  tokens - prune daily token counters older than TOKEN_COUNTER_RETAIN_DAYS")
		fmt.Println("  all    - run full cleanup (default)")
		os.Exit(1)
	}

	log.Info("cleanup completed successfully")
}
