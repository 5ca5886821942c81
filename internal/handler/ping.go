// File: internal/handler/ping.go
package handler

import (
	"net/http"
	"time"

	"auth-app/internal/api"
	"auth-app/internal/cache"
	"auth-app/internal/database"

	"github.com/labstack/echo/v4"
)

const healthKey = "health:ping"

// PingResponse 健康檢查回應模型
// swagger:model PingResponse
type PingResponse struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     500 {object} api.HTTPError
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, api.HTTPError{Message: "database unhealthy"})
		}
		if err := cch.Set(ctx, healthKey, "ok", 10*time.Second).Err(); err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, api.HTTPError{Message: "cache unhealthy"})
		}
		return c.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}

// RootHandler 確認服務存活，不檢查相依服務
// @Summary     Liveness
// @Tags        health
// @Produce     plain
// @Success     200 {string} string "Auth API is running"
// @Router      / [get]
func RootHandler(c echo.Context) error {
	return c.String(http.StatusOK, "Auth API is running")
}
