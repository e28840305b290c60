package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kidcare/internal/config"
	"kidcare/internal/domain/model"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	return Open(cfg.DSN(), cfg.GoEnv)
}

// DSNを直接渡して開く（テストコンテナ用）
func Open(dsn string, env string) (*gorm.DB, error) {
	level := logger.Warn
	if env == "dev" {
		level = logger.Info
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	return gdb, nil
}

// 起動時にテーブルを揃える
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Product{},
		&model.InventoryAdjustment{},
		&model.Order{},
		&model.OrderItem{},
		&model.Child{},
		&model.Vaccine{},
		&model.Appointment{},
		&model.AuditLog{},
	)
}
