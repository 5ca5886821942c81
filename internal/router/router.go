// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"auth-app/internal/cache"
	"auth-app/internal/database"
	"auth-app/internal/handler"
	"auth-app/internal/handler/auth"
	"auth-app/internal/middleware"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, authn auth.Authenticator, tokens middleware.TokenVerifier) {
	e.GET("/", handler.RootHandler)

	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(db, cch))

	// 註冊、登入
	apiAuth := api.Group("/auth")
	apiAuth.POST("/register", auth.RegisterHandler(authn))
	apiAuth.POST("/login", auth.LoginHandler(authn))

	// 取得當前使用者個人資料
	apiAuth.GET("/profile", auth.ProfileHandler(authn), middleware.RequireAuth(tokens))
}
