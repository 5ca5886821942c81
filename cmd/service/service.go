// @title        Auth API
// @version      1.0
// @description  使用者註冊、登入與個人資料查詢的後端 API 文件
// @host         localhost:5001
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auth-app/internal/cache"
	"auth-app/internal/config"
	"auth-app/internal/database"
	"auth-app/internal/logging"
	authmw "auth-app/internal/middleware"
	"auth-app/internal/router"
	"auth-app/internal/service"
	"auth-app/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "auth-app/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	dbPingTimeout   = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	startServer     = serve
	newWorkerPool   = worker.NewPool
	logOutput       io.Writer = os.Stdout
	exitFunc        = os.Exit
)

// serve 啟動 HTTP 服務，收到 SIGINT / SIGTERM 時優雅關閉
func serve(e *echo.Echo, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}
	logger := logging.NewJSON(logOutput, cfg.Debug)
	ctx := context.Background()

	// 密鑰缺少時在接受流量前就失敗，不產生臨時密鑰
	tokens, err := service.NewTokenManager(cfg.JWTSecret, service.TokenTTL)
	if err != nil {
		return fmt.Errorf("JWT 設定錯誤: %w", err)
	}

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	err = db.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn(ctx, "關閉 Redis 連線失敗", "err", err)
		}
	}()

	if cfg.ResetDB {
		logger.Warn(ctx, "DB_RESET=true, rolling back all migrations")
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("RollbackAll 失敗: %w", err)
		}
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	hasher := service.NewPasswordHasher(cfg.BcryptCost, wp)
	authn := service.NewAuthenticator(db, hasher, tokens, logger.With("component", "auth"))

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Debug = cfg.Debug
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			authmw.TokenHeader,
		},
	}))

	// 註冊路由並注入相依元件
	router.Setup(e, db, rdb, authn, tokens)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	logger.Info(ctx, "server starting", "addr", cfg.Addr(), "workers", cfg.WorkerCount)
	return startServer(e, cfg.Addr())
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
