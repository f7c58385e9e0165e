package reports

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"zayavka-portal/internal/dto"
)

// BuildWord — тот же отчёт таблицей в документе Word.
func BuildWord(rows []dto.ReportRowDTO) ([]byte, error) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("Отчёт по заявкам").Size("28")

	headers := []string{"Сотрудник", "Тип", "Описание", "Статус", "Дата"}
	tbl := w.AddTable(len(rows)+1, len(headers), 0, nil)

	for c, h := range headers {
		tbl.TableRows[0].TableCells[c].AddParagraph().AddText(h).Bold()
	}
	for i, r := range rows {
		cells := tbl.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(r.Employee)
		cells[1].AddParagraph().AddText(r.Type)
		cells[2].AddParagraph().AddText(r.Description)
		cells[3].AddParagraph().AddText(r.Status)
		cells[4].AddParagraph().AddText(r.Date)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("ошибка сериализации документа: %w", err)
	}
	return buf.Bytes(), nil
}
