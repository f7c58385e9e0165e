package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/services"
	apperrors "zayavka-portal/pkg/errors"
	"zayavka-portal/pkg/service"
	"zayavka-portal/pkg/utils"
)

const oauthStateCookie = "oauthState"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		jwtSvc:      jwtSvc,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Register: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Неверный формат данных для регистрации"))
	}
	if err := c.Validate(&payload); err != nil {
		ctrl.logger.Error("Register: ошибка валидации данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Данные регистрации не прошли проверку"))
	}

	result, err := ctrl.authService.Register(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, result.Tokens.RefreshToken)
	return utils.SuccessResponse(c, result, "Регистрация прошла успешно", http.StatusCreated)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Неверный формат данных для входа"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.ErrInvalidCredentials)
	}

	result, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("username", payload.Username), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, result.Tokens.RefreshToken)
	return utils.SuccessResponse(c, result, "Авторизация прошла успешно", http.StatusOK)
}

// GoogleLogin отправляет клиента на страницу согласия Google. Случайный
// state кладётся в cookie и сверяется в callback.
func (ctrl *AuthController) GoogleLogin(c echo.Context) error {
	state := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})
	return c.Redirect(http.StatusTemporaryRedirect, ctrl.authService.GoogleLoginURL(state))
}

func (ctrl *AuthController) GoogleCallback(c echo.Context) error {
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		ctrl.logger.Warn("GoogleCallback: state не совпадает")
		return ctrl.errorResponse(c, apperrors.ErrInvalidCredentials)
	}

	code := c.QueryParam("code")
	if code == "" {
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("отсутствует код авторизации"))
	}

	result, err := ctrl.authService.GoogleCallback(c.Request().Context(), code)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, result.Tokens.RefreshToken)
	return utils.SuccessResponse(c, result, "Вход через Google выполнен", http.StatusOK)
}

// SelectRole — одноразовый выбор роли после федеративного входа.
func (ctrl *AuthController) SelectRole(c echo.Context) error {
	var payload dto.SelectRoleDTO

	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewInvalidInputError("Неверный формат данных"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.ErrInvalidRole)
	}

	tokens, err := ctrl.authService.SelectRole(c.Request().Context(), payload.Role)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, tokens.RefreshToken)
	return utils.SuccessResponse(c, tokens, "Роль выбрана", http.StatusOK)
}

func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie("refreshToken")
	if err != nil || cookie.Value == "" {
		return ctrl.errorResponse(c, apperrors.ErrEmptyAuthHeader)
	}

	tokens, err := ctrl.authService.RefreshTokens(cookie.Value)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, tokens.RefreshToken)
	return utils.SuccessResponse(c, tokens, "Токены обновлены", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы", http.StatusOK)
}

func (ctrl *AuthController) setRefreshCookie(c echo.Context, refreshToken string) {
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.jwtSvc.GetRefreshTokenTTL()),
		HttpOnly: true,
	})
}
