package controllers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/services"
	apperrors "zayavka-portal/pkg/errors"
	"zayavka-portal/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

func (ctrl *UserController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *UserController) GetProfile(c echo.Context) error {
	profile, err := ctrl.userService.GetProfile(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, profile, "Профиль получен", http.StatusOK)
}

// UpdateProfile принимает multipart-форму: текстовые поля плюс
// необязательное фото.
func (ctrl *UserController) UpdateProfile(c echo.Context) error {
	payload := dto.UpdateProfileDTO{
		FullName: c.FormValue("full_name"),
		Faculty:  c.FormValue("faculty"),
		Position: c.FormValue("position"),
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Данные профиля не прошли проверку"))
	}

	var photo io.Reader
	var photoName string
	if fileHeader, err := c.FormFile("photo"); err == nil {
		src, err := ctrl.openUpload(fileHeader)
		if err != nil {
			return ctrl.errorResponse(c, err)
		}
		defer src.Close()
		photo, photoName = src, fileHeader.Filename
	}

	profile, err := ctrl.userService.UpdateProfile(c.Request().Context(), payload, photo, photoName)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, profile, "Профиль обновлён", http.StatusOK)
}

func (ctrl *UserController) GetMyActions(c echo.Context) error {
	logs, err := ctrl.userService.GetMyActions(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, logs, "Журнал действий получен", http.StatusOK)
}

func (ctrl *UserController) GetUsers(c echo.Context) error {
	users, err := ctrl.userService.GetUsers(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, users, "Список пользователей получен", http.StatusOK)
}

func (ctrl *UserController) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("идентификатор пользователя должен быть числом"))
	}

	if err := ctrl.userService.DeleteUser(c.Request().Context(), id); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "Пользователь удалён", http.StatusOK)
}

func (ctrl *UserController) openUpload(fileHeader *multipart.FileHeader) (multipart.File, error) {
	src, err := fileHeader.Open()
	if err != nil {
		ctrl.logger.Error("не удалось открыть загруженный файл", zap.Error(err))
		return nil, apperrors.NewInvalidInputError("не удалось прочитать загруженный файл")
	}
	return src, nil
}
