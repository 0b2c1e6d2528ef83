package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/config"
	_ "github.com/Milan-Bhingradiya/sweet-shop-management-system/docs"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/cache"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/cleanup"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/handlers"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/hashing"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/middleware"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/producer"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/router"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/token"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/pkg/database"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// @Title Sweet Shop API
// @Version 1.0
// @Description API магазина сладостей: каталог, заказы, управление
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	var logOpts []logger.Option
	if f := os.Getenv("LOG_FILE"); f != "" {
		logOpts = append(logOpts, logger.WithRotatingFile(f))
	}
	if err := logger.Init(isDev, logOpts...); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	// Redis и Kafka необязательны: nil-интерфейс отключает кэш и события.
	var catalog service.CatalogCache
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		catalog = cache.NewCatalogCache(rdb, cfg.Redis.TTL, log)
	}

	var events service.EventBus
	if cfg.Kafka.Enabled {
		prod := producer.NewOrderEventProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer prod.Close()
		events = prod
		log.Info("order events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.TTL)
	authSvc := service.NewAuthService(repos.Users, hashing.NewBcrypt(bcrypt.DefaultCost), tokens, log)
	categorySvc := service.NewCategoryService(repos, catalog, log)
	productSvc := service.NewProductService(repos, catalog, log)
	orderSvc := service.NewOrderService(repos, events, catalog, log)

	r := router.Router(router.Deps{
		Auth:        handlers.NewAuthHandler(authSvc, log),
		Categories:  handlers.NewCategoryHandler(categorySvc, log),
		Products:    handlers.NewProductHandler(productSvc, log),
		Orders:      handlers.NewOrderHandler(orderSvc, log),
		Tokens:      tokens,
		AuthLimiter: middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		DB:          repos,
		CORSOrigins: cfg.CORS.AllowOrigins,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	scheduler, err := cleanup.NewScheduler(
		cleanup.NewCleanupService(repos.TokenCounters, cfg.Cleanup.RetainDays, log),
		cfg.Cleanup.Schedule, log,
	)
	if err != nil {
		log.Fatal("invalid cleanup schedule", zap.String("spec", cfg.Cleanup.Schedule), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server started", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", zap.Error(err))
		return
	}
	log.Info("service stopped")
}
