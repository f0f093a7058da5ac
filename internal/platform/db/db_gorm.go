package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Config はスナップショットインデックス用DBの接続設定です。
// DatabaseURL が設定されていれば PostgreSQL、そうでなければ SQLite ファイルを使用します。
type Config struct {
	DatabaseURL    string
	SQLitePath     string
	ConnectTimeout time.Duration
	Debug          bool
}

// Opener は DSN から gorm.DB を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// Dialect は接続先のドライバ名と DSN を返します。
func (c Config) Dialect() (driver, dsn string) {
	if c.DatabaseURL != "" {
		return "postgres", c.DatabaseURL
	}
	return "sqlite", c.SQLitePath
}

// OpenDB は設定に従って DB に接続し、models を AutoMigrate します。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	driver, dsn := cfg.Dialect()
	if dsn == "" {
		return nil, fmt.Errorf("db: empty dsn for %s", driver)
	}

	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var opener Opener
	switch driver {
	case "postgres":
		opener = func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }
	default:
		opener = func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	db, err := ConnectWithRetry(dsn, timeout, opener)
	if err != nil {
		return nil, err
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("db: migrate: %w", err)
		}
	}

	slog.Info("database connection successful", "driver", driver)
	return db, nil
}

// ConnectWithRetry は timeout に達するまで opener を繰り返し呼び出します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}
