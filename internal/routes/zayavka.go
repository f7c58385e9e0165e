package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zayavka-portal/internal/controllers"
	"zayavka-portal/internal/services"
	"zayavka-portal/pkg/filestorage"
)

func runZayavkaRouter(
	secureGroup *echo.Group,
	zayavkaService services.ZayavkaServiceInterface,
	queryService services.QueryServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) {
	zayavkaCtrl := controllers.NewZayavkaController(zayavkaService, queryService, fileStorage, logger)

	secureGroup.POST("/zayavki", zayavkaCtrl.CreateZayavka)
	secureGroup.GET("/zayavki/my", zayavkaCtrl.GetMyZayavki)
	secureGroup.GET("/zayavki/dashboard", zayavkaCtrl.GetDashboard)
	secureGroup.GET("/zayavki/history", zayavkaCtrl.GetHistory)
	secureGroup.GET("/zayavki/calendar", zayavkaCtrl.GetCalendar)
	secureGroup.GET("/zayavki/:id", zayavkaCtrl.FindZayavka)
	secureGroup.PUT("/zayavki/:id/status", zayavkaCtrl.TransitionStatus)
	secureGroup.POST("/zayavki/:id/feedback", zayavkaCtrl.SubmitFeedback)
	secureGroup.DELETE("/zayavki/:id", zayavkaCtrl.DeleteZayavka)
}
