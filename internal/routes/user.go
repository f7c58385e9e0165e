package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zayavka-portal/internal/controllers"
	"zayavka-portal/internal/services"
)

func runUserRouter(secureGroup *echo.Group, userService services.UserServiceInterface, logger *zap.Logger) {
	userCtrl := controllers.NewUserController(userService, logger)

	secureGroup.GET("/profile", userCtrl.GetProfile)
	secureGroup.PUT("/profile", userCtrl.UpdateProfile)
	secureGroup.GET("/profile/actions", userCtrl.GetMyActions)
	secureGroup.GET("/users", userCtrl.GetUsers)
	secureGroup.DELETE("/user/:id", userCtrl.DeleteUser)
}
