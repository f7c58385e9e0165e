package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"zayavka-portal/internal/dto"
)

// BuildPDF — постраничный вариант отчёта.
func BuildPDF(rows []dto.ReportRowDTO) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Отчёт по заявкам"), "", 1, "L", false, 0, "")

	headers := []string{"Сотрудник", "Тип", "Описание", "Статус", "Дата"}
	widths := []float64{35, 30, 60, 25, 35}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		cols := []string{r.Employee, r.Type, r.Description, r.Status, r.Date}
		for i, c := range cols {
			pdf.CellFormat(widths[i], 6, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("ошибка построения PDF: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ошибка сериализации PDF: %w", err)
	}
	return buf.Bytes(), nil
}
