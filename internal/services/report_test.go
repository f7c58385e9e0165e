package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthWindow(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 30, 0, 0, time.Local)

	t.Run("обычный месяц", func(t *testing.T) {
		from, to := monthWindow(3, now)
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local), from)
		assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.Local), to)
	})

	t.Run("декабрь перекатывается в январь следующего года", func(t *testing.T) {
		from, to := monthWindow(12, now)
		assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local), from)
		assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local), to)
	})

	t.Run("граница полуинтервала", func(t *testing.T) {
		from, to := monthWindow(6, now)
		lastMoment := time.Date(2025, time.June, 30, 23, 59, 59, 0, time.Local)
		assert.True(t, lastMoment.After(from) && lastMoment.Before(to), "последняя секунда месяца входит в окно")
		assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.Local), to, "правая граница — первое число следующего месяца")
	})
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "Заявки_2025.xlsx", reportFileName(0, 2025, "xlsx"), "без месяца — годовой отчёт")
	assert.Equal(t, "Заявки_Январь_2025.pdf", reportFileName(1, 2025, "pdf"))
	assert.Equal(t, "Заявки_Декабрь_2025.docx", reportFileName(12, 2025, "docx"))
	assert.Equal(t, "Заявки_Июнь_2024.xlsx", reportFileName(6, 2024, "xlsx"), "в имени файла — выбранный месяц, а не текущий")
}
