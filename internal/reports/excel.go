package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"zayavka-portal/internal/dto"
)

const reportSheet = "Отчёт"

var reportHeaders = []interface{}{"Сотрудник", "Тип", "Описание", "Статус", "Дата"}

// BuildExcel строит книгу целиком в памяти: при любой ошибке наружу не
// уходит ни одного байта.
func BuildExcel(rows []dto.ReportRowDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("ошибка создания листа: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeaders); err != nil {
		return nil, fmt.Errorf("ошибка записи заголовков: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(reportSheet, "A1", "E1", style)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{r.Employee, r.Type, r.Description, r.Status, r.Date}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("ошибка записи строки отчёта: %w", err)
		}
	}

	_ = f.SetColWidth(reportSheet, "A", "B", 20)
	_ = f.SetColWidth(reportSheet, "C", "C", 40)
	_ = f.SetColWidth(reportSheet, "D", "E", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации книги: %w", err)
	}
	return buf.Bytes(), nil
}
