// Package config 從環境變數（可選的 .env 檔）讀取服務設定
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// ErrMissingSecret 表示 JWT_SECRET 未設定；服務不得以臨時密鑰啟動
var ErrMissingSecret = errors.New("環境變數 JWT_SECRET 未設定")

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	WorkerCount int
	BcryptCost  int

	CORSAllowedOrigins []string
	Debug              bool
	// ResetDB 啟動時先退回所有 migration 再重新套用，只用於開發環境
	ResetDB bool
}

// loadEnvFile 可在測試中替換
var loadEnvFile = func() { _ = godotenv.Load() }

// Load 依序讀取 .env（若存在）與環境變數並驗證
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:          getEnv("PORT", "5001"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Debug:         os.Getenv("DEBUG") == "true",
		ResetDB:       os.Getenv("DB_RESET") == "true",
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts()
	}
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = getEnvInt("WORKER_COUNT", runtime.NumCPU()); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 檢查必要設定
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("無效的 WORKER_COUNT: %d", c.WorkerCount)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("無效的 BCRYPT_COST: %d", c.BcryptCost)
	}
	return nil
}

// Addr 回傳 echo 監聽位址
func (c *Config) Addr() string {
	return ":" + c.Port
}

// databaseURLFromParts 以 DB_USER / DB_PASSWORD / DB_HOST / DB_PORT / DB_NAME 組出連線字串
func databaseURLFromParts() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432")),
		Path:   "/" + getEnv("DB_NAME", "auth_db"),
	}
	user := getEnv("DB_USER", "postgres")
	if pw, ok := os.LookupEnv("DB_PASSWORD"); ok && pw != "" {
		u.User = url.UserPassword(user, pw)
	} else {
		u.User = url.User(user)
	}
	if mode := os.Getenv("DB_SSLMODE"); mode != "" {
		u.RawQuery = url.Values{"sslmode": {mode}}.Encode()
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
