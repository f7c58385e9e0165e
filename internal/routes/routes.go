package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zayavka-portal/internal/listeners"
	"zayavka-portal/internal/repositories"
	"zayavka-portal/internal/services"
	"zayavka-portal/pkg/config"
	"zayavka-portal/pkg/eventbus"
	"zayavka-portal/pkg/filestorage"
	"zayavka-portal/pkg/middleware"
	"zayavka-portal/pkg/service"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.Config,
) {
	logger.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}

	// Шина событий: архивные книги по закрытым заявкам пишутся слушателем,
	// а не сервисом смены статуса.
	bus := eventbus.New(logger)
	listeners.NewOutcomeExportListener(cfg.Storage.ExportDir, logger).Register(bus)

	userRepo := repositories.NewUserRepository(dbConn, logger)
	zayavkaRepo := repositories.NewZayavkaRepository(dbConn, logger)
	logRepo := repositories.NewActionLogRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	authService := services.NewAuthService(userRepo, jwtSvc, cfg.Google, logger)
	userService := services.NewUserService(userRepo, logRepo, fileStorage, logger)
	zayavkaService := services.NewZayavkaService(dbConn, zayavkaRepo, logRepo, cacheRepo, bus, logger)
	queryService := services.NewQueryService(zayavkaRepo, cacheRepo, logger)
	reportService := services.NewReportService(zayavkaRepo, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authService, jwtSvc, logger)
	runUserRouter(secureGroup, userService, logger)
	runZayavkaRouter(secureGroup, zayavkaService, queryService, fileStorage, logger)
	runReportRouter(secureGroup, reportService, logger)

	logger.Info("InitRouter: маршруты созданы")
}
