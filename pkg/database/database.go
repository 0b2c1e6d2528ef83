package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// ConnectDB открывает пул соединений для сервиса. Паникует через log.Fatal,
// если база недоступна.
func ConnectDB(cfg *Config, log *zap.Logger) *gorm.DB {
	db, err := open(cfg, gormlogger.Warn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.String("host", cfg.Host), zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("database connected", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return db
}

// ConnectDBForMigration как ConnectDB, но с подробным SQL-логом.
func ConnectDBForMigration(cfg *Config, log *zap.Logger) *gorm.DB {
	db, err := open(cfg, gormlogger.Info)
	if err != nil {
		log.Fatal("failed to connect to database for migration", zap.Error(err))
	}
	log.Info("database connected for migration", zap.String("db", cfg.Name))
	return db
}

func CloseDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("failed to get sql.DB on close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("failed to close database", zap.Error(err))
		return
	}
	log.Info("database connection closed")
}

func open(cfg *Config, level gormlogger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
}
