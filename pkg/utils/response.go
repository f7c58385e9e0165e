package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "zayavka-portal/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

// ErrorList сопоставляет типизированные ошибки ядра HTTP-статусам.
// Всё, чего здесь нет, отдается как 500.
var ErrorList = map[error]int{
	apperrors.ErrNotFound:               http.StatusNotFound,
	apperrors.ErrBadRequest:             http.StatusBadRequest,
	apperrors.ErrInvalidStatus:          http.StatusBadRequest,
	apperrors.ErrInvalidRating:          http.StatusBadRequest,
	apperrors.ErrInvalidRole:            http.StatusBadRequest,
	apperrors.ErrForbidden:              http.StatusForbidden,
	apperrors.ErrRoleChosen:             http.StatusForbidden,
	apperrors.ErrInvalidCredentials:     http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:        http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:      http.StatusUnauthorized,
	apperrors.ErrInvalidToken:           http.StatusUnauthorized,
	apperrors.ErrTokenExpired:           http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:       http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:       http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:      http.StatusUnauthorized,
	apperrors.ErrInvalidSigningMethod:   http.StatusUnauthorized,
	apperrors.ErrEmailTaken:             http.StatusConflict,
	apperrors.ErrUsernameTaken:          http.StatusConflict,
	apperrors.ErrExportFailed:           http.StatusInternalServerError,
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	message := err.Error()
	code := http.StatusInternalServerError

	for appErr, statusCode := range ErrorList {
		if errors.Is(err, appErr) {
			message = appErr.Error()
			code = statusCode
			break
		}
	}

	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		message = inputErr.Message
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		logger.Error("внутренняя ошибка при обработке запроса", zap.Error(err))
		message = "Внутренняя ошибка сервера"
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
