package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zayavka-portal/internal/services"
	"zayavka-portal/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetReport отдаёт отчёт файлом. Параметры: month=1..12|all, format=xlsx|docx|pdf.
func (ctrl *ReportController) GetReport(c echo.Context) error {
	month := c.QueryParam("month")
	format := strings.ToLower(c.QueryParam("format"))

	file, err := ctrl.reportService.BuildReport(c.Request().Context(), month, format)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctrl.logger.Info("отчёт сформирован",
		zap.String("month", month),
		zap.String("format", format),
		zap.String("file", file.FileName),
		zap.Int("size", len(file.Data)),
	)

	// Имя файла кириллическое, поэтому обязательно RFC 5987.
	disposition := fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(file.FileName))
	c.Response().Header().Set("Content-Disposition", disposition)

	return c.Stream(http.StatusOK, file.ContentType, bytes.NewReader(file.Data))
}
