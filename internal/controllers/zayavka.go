package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/services"
	apperrors "zayavka-portal/pkg/errors"
	"zayavka-portal/pkg/filestorage"
	"zayavka-portal/pkg/utils"
)

type ZayavkaController struct {
	zayavkaService services.ZayavkaServiceInterface
	queryService   services.QueryServiceInterface
	fileStorage    filestorage.FileStorageInterface
	logger         *zap.Logger
}

func NewZayavkaController(
	zayavkaService services.ZayavkaServiceInterface,
	queryService services.QueryServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *ZayavkaController {
	return &ZayavkaController{
		zayavkaService: zayavkaService,
		queryService:   queryService,
		fileStorage:    fileStorage,
		logger:         logger,
	}
}

func (ctrl *ZayavkaController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *ZayavkaController) parseID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apperrors.NewInvalidInputError("идентификатор заявки должен быть числом")
	}
	return id, nil
}

// CreateZayavka принимает multipart-форму с необязательным вложением.
func (ctrl *ZayavkaController) CreateZayavka(c echo.Context) error {
	var payload dto.CreateZayavkaDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("CreateZayavka: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Неверный формат данных заявки"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Тип и описание заявки обязательны"))
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			ctrl.logger.Error("не удалось открыть вложение заявки", zap.Error(err))
			return ctrl.errorResponse(c, apperrors.NewInvalidInputError("не удалось прочитать вложение"))
		}
		defer src.Close()

		path, err := ctrl.fileStorage.Save(src, fileHeader.Filename, "zayavki")
		if err != nil {
			ctrl.logger.Error("не удалось сохранить вложение заявки", zap.Error(err))
			return ctrl.errorResponse(c, err)
		}
		payload.File = path
	}

	newID, err := ctrl.zayavkaService.CreateZayavka(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, map[string]int{"id": newID}, "Заявка создана", http.StatusCreated)
}

func (ctrl *ZayavkaController) GetMyZayavki(c echo.Context) error {
	zayavki, err := ctrl.queryService.MyZayavki(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, zayavki, "Ваши заявки получены", http.StatusOK)
}

func (ctrl *ZayavkaController) GetDashboard(c echo.Context) error {
	var filter dto.ZayavkaFilterDTO
	if err := c.Bind(&filter); err != nil {
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Неверный формат фильтров"))
	}

	zayavki, err := ctrl.queryService.Dashboard(c.Request().Context(), filter)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, zayavki, "Панель заявок получена", http.StatusOK)
}

func (ctrl *ZayavkaController) GetHistory(c echo.Context) error {
	zayavki, err := ctrl.queryService.History(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, zayavki, "История заявок получена", http.StatusOK)
}

func (ctrl *ZayavkaController) GetCalendar(c echo.Context) error {
	events, err := ctrl.queryService.CalendarFeed(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, events, "Календарь заявок получен", http.StatusOK)
}

func (ctrl *ZayavkaController) FindZayavka(c echo.Context) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	zayavka, err := ctrl.queryService.FindZayavka(c.Request().Context(), id)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, zayavka, "Заявка получена", http.StatusOK)
}

func (ctrl *ZayavkaController) TransitionStatus(c echo.Context) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.TransitionStatusDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Неверный формат данных"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.ErrInvalidStatus)
	}

	zayavka, err := ctrl.zayavkaService.TransitionStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, zayavka, "Статус заявки обновлён", http.StatusOK)
}

func (ctrl *ZayavkaController) SubmitFeedback(c echo.Context) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.FeedbackDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Неверный формат отзыва"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.ErrInvalidRating)
	}

	if err := ctrl.zayavkaService.SubmitFeedback(c.Request().Context(), id, payload); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "Отзыв сохранён", http.StatusOK)
}

func (ctrl *ZayavkaController) DeleteZayavka(c echo.Context) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.zayavkaService.DeleteZayavka(c.Request().Context(), id); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "Заявка удалена", http.StatusOK)
}
