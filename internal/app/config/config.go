// Package config はアプリケーション設定を環境変数から読み込みます。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"fintools/internal/feature/conversion/usecase"
	"fintools/internal/platform/externalapi/yahoo"
)

// EnvPrefix はすべての設定用環境変数の接頭辞です。
const EnvPrefix = "FINAPP__"

// Config は起動時に一度だけ構築され、各コンストラクタに渡されます。
type Config struct {
	CacheFile       string // シンボルキャッシュ(JSON)のパス
	OutputDir       string // シンボル一覧の出力先
	DiffDir         string // 差分レポートの出力先
	StocklistPrefix string
	DiffPrefix      string
	Suffix          string

	Concurrency   int
	LookupTimeout time.Duration
	YahooBaseURL  string

	RedisAddr     string // 空の場合はプロバイダキャッシュ無効
	RedisPassword string
	RedisTTL      time.Duration // 0 の場合は翌朝の更新時刻まで

	DatabaseURL string // 設定時は PostgreSQL を使用
	SQLitePath  string // 空の場合はインデックス無効（ディレクトリ走査）

	HTTPAddr string
}

// Default は既定値の Config を返します。
func Default() *Config {
	return &Config{
		CacheFile:       filepath.Join("cache_dir", "symbol_cache.json"),
		OutputDir:       "stocks",
		DiffDir:         "diffs",
		StocklistPrefix: "stocks",
		DiffPrefix:      "diff",
		Suffix:          ".txt",
		Concurrency:     usecase.DefaultConcurrency,
		LookupTimeout:   usecase.DefaultLookupTimeout,
		YahooBaseURL:    yahoo.DefaultBaseURL,
		SQLitePath:      filepath.Join("cache_dir", "snapshots.db"),
		HTTPAddr:        ":8080",
	}
}

// LoadConfig は .env（存在すれば）と FINAPP__* 環境変数から Config を構築します。
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv は環境変数のみから Config を構築します。
func FromEnv() (*Config, error) {
	cfg := Default()

	str(&cfg.CacheFile, "CACHE_FILE")
	str(&cfg.OutputDir, "OUTPUT_PATH")
	str(&cfg.DiffDir, "OUTPUT_PATH_DIFF")
	str(&cfg.StocklistPrefix, "PREFIX_STOCKLIST")
	str(&cfg.DiffPrefix, "PREFIX_DIFF")
	str(&cfg.Suffix, "SUFFIX")
	str(&cfg.YahooBaseURL, "YAHOO_BASE_URL")
	str(&cfg.RedisAddr, "REDIS_ADDR")
	str(&cfg.RedisPassword, "REDIS_PASSWORD")
	str(&cfg.DatabaseURL, "DATABASE_URL")
	str(&cfg.HTTPAddr, "HTTP_ADDR")
	// 空文字を明示的に指定するとインデックスを無効化できる
	if v, ok := os.LookupEnv(EnvPrefix + "SQLITE_PATH"); ok {
		cfg.SQLitePath = v
	}

	if v := os.Getenv(EnvPrefix + "CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("config: invalid %sCONCURRENCY %q", EnvPrefix, v)
		}
		cfg.Concurrency = n
	}
	if err := duration(&cfg.LookupTimeout, "LOOKUP_TIMEOUT"); err != nil {
		return nil, err
	}
	if err := duration(&cfg.RedisTTL, "REDIS_TTL"); err != nil {
		return nil, err
	}

	if cfg.StocklistPrefix == "" {
		return nil, fmt.Errorf("config: %sPREFIX_STOCKLIST must not be empty", EnvPrefix)
	}
	return cfg, nil
}

// EnsureDirs はキャッシュ・出力・差分の各ディレクトリを作成します。
func (c *Config) EnsureDirs() error {
	dirs := []string{filepath.Dir(c.CacheFile), c.OutputDir, c.DiffDir}
	if c.DatabaseURL == "" && c.SQLitePath != "" {
		dirs = append(dirs, filepath.Dir(c.SQLitePath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// IndexEnabled はスナップショットインデックス用DBが設定されているかを返します。
func (c *Config) IndexEnabled() bool {
	return c.DatabaseURL != "" || c.SQLitePath != ""
}

func str(dst *string, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

func duration(dst *time.Duration, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fmt.Errorf("config: invalid %s%s %q", EnvPrefix, key, v)
	}
	*dst = d
	return nil
}
