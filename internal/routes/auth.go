package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zayavka-portal/internal/controllers"
	"zayavka-portal/internal/services"
	"zayavka-portal/pkg/service"
)

func runAuthRouter(
	api *echo.Group,
	secureGroup *echo.Group,
	authService services.AuthServiceInterface,
	jwtSvc service.JWTService,
	logger *zap.Logger,
) {
	authCtrl := controllers.NewAuthController(authService, jwtSvc, logger)

	api.POST("/auth/register", authCtrl.Register)
	api.POST("/auth/login", authCtrl.Login)
	api.POST("/auth/refresh", authCtrl.RefreshToken)
	api.POST("/auth/logout", authCtrl.Logout)

	api.GET("/auth/google/login", authCtrl.GoogleLogin)
	api.GET("/auth/google/callback", authCtrl.GoogleCallback)

	// Выбор роли требует аутентификации: актор уже вошёл через провайдера.
	secureGroup.POST("/auth/select-role", authCtrl.SelectRole)
}
