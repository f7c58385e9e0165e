package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/reports"
	"zayavka-portal/internal/repositories"
	"zayavka-portal/pkg/constants"
	apperrors "zayavka-portal/pkg/errors"
	"zayavka-portal/pkg/utils"
)

// ReportFile — готовый к выдаче отчёт.
type ReportFile struct {
	Data        []byte
	FileName    string
	ContentType string
}

type ReportServiceInterface interface {
	BuildReport(ctx context.Context, month string, format string) (*ReportFile, error)
}

type ReportService struct {
	zayavkaRepo repositories.ZayavkaRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(zayavkaRepo repositories.ZayavkaRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{zayavkaRepo: zayavkaRepo, logger: logger}
}

var monthNames = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// monthWindow — полуинтервал [1-е число месяца, 1-е число следующего)
// в текущем году. Декабрь перекатывается в январь следующего года.
func monthWindow(month int, now time.Time) (time.Time, time.Time) {
	year := now.Year()
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	to := time.Date(year+boolToInt(month == 12), time.Month(month%12+1), 1, 0, 0, 0, 0, time.Local)
	return from, to
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// reportFileName: Заявки_{год}.ext для всего года,
// Заявки_{месяц}_{год}.ext для конкретного месяца.
func reportFileName(month int, year int, ext string) string {
	if month == 0 {
		return fmt.Sprintf("Заявки_%d.%s", year, ext)
	}
	return fmt.Sprintf("Заявки_%s_%d.%s", monthNames[month-1], year, ext)
}

// BuildReport собирает отчёт по заявкам за месяц (1..12) либо за всё время
// (month == "all"). Формат: xlsx, docx или pdf. Чистая функция над
// выбранными записями — хранилище не изменяется.
func (s *ReportService) BuildReport(ctx context.Context, month string, format string) (*ReportFile, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != constants.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()
	var from, to *time.Time
	monthNum := 0

	if month != "" && month != "all" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return nil, apperrors.NewInvalidInputError("месяц должен быть числом от 1 до 12 или 'all'")
		}
		monthNum = m
		f, t := monthWindow(m, now)
		from, to = &f, &t
	}

	zayavki, err := s.zayavkaRepo.GetForPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ReportRowDTO, len(zayavki))
	for i, z := range zayavki {
		rows[i] = dto.ReportRowDTO{
			Employee:    z.Owner.Username,
			Type:        z.Type,
			Description: z.Description,
			Status:      z.Status.String(),
			Date:        z.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}

	var data []byte
	var contentType string

	switch format {
	case "", "xlsx":
		format = "xlsx"
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		data, err = reports.BuildExcel(rows)
	case "docx":
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		data, err = reports.BuildWord(rows)
	case "pdf":
		contentType = "application/pdf"
		data, err = reports.BuildPDF(rows)
	default:
		return nil, apperrors.NewInvalidInputError("неизвестный формат отчёта: %s", format)
	}
	if err != nil {
		s.logger.Error("не удалось сформировать отчёт",
			zap.String("format", format),
			zap.Int("month", monthNum),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExportFailed, err)
	}

	return &ReportFile{
		Data:        data,
		FileName:    reportFileName(monthNum, now.Year(), format),
		ContentType: contentType,
	}, nil
}
