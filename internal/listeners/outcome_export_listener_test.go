package listeners

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"zayavka-portal/internal/events"
	"zayavka-portal/pkg/constants"
)

func newEvent(id int, status constants.Status) events.ZayavkaStatusChangedEvent {
	return events.ZayavkaStatusChangedEvent{
		ZayavkaID:     id,
		NewStatus:     status,
		Type:          "Проектор",
		Description:   "Не включается",
		CreatedAt:     time.Date(2025, time.March, 1, 10, 15, 0, 0, time.Local),
		OwnerUsername: "ivanov",
		OwnerFaculty:  "ФИТ",
	}
}

func TestHandleAppendsRows(t *testing.T) {
	dir := t.TempDir()
	l := NewOutcomeExportListener(dir, zap.NewNop())

	require.NoError(t, l.Handle(context.Background(), newEvent(1, constants.StatusDone)))
	require.NoError(t, l.Handle(context.Background(), newEvent(2, constants.StatusDone)))

	path := filepath.Join(dir, "сделано.xlsx")
	f, err := excelize.OpenFile(path)
	require.NoError(t, err, "архивная книга должна существовать и открываться")
	defer f.Close()

	rows, err := f.GetRows("Заявки")
	require.NoError(t, err)
	require.Len(t, rows, 3, "заголовок и по строке на каждое событие")

	assert.Equal(t, "Тип заявки", rows[0][0])
	assert.Equal(t, "Проектор", rows[1][0])
	assert.Equal(t, "01.03.2025 10:15", rows[1][2])
	assert.Equal(t, "сделано", rows[1][3])
	assert.Equal(t, "Нет файла", rows[1][4], "пустое вложение помечается явно")
	assert.Equal(t, "ivanov", rows[1][5])
	assert.Equal(t, "ФИТ", rows[1][6])
}

func TestHandleSeparateBooksPerStatus(t *testing.T) {
	dir := t.TempDir()
	l := NewOutcomeExportListener(dir, zap.NewNop())

	require.NoError(t, l.Handle(context.Background(), newEvent(1, constants.StatusDone)))
	require.NoError(t, l.Handle(context.Background(), newEvent(2, constants.StatusRejected)))

	_, err := os.Stat(filepath.Join(dir, "сделано.xlsx"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "отказано.xlsx"))
	assert.NoError(t, err)
}

func TestHandleIgnoresNonTerminal(t *testing.T) {
	dir := t.TempDir()
	l := NewOutcomeExportListener(dir, zap.NewNop())

	require.NoError(t, l.Handle(context.Background(), newEvent(1, constants.StatusAccepted)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "нефинальные статусы не порождают архивных книг")
}

func TestHandleWithAttachment(t *testing.T) {
	dir := t.TempDir()
	l := NewOutcomeExportListener(dir, zap.NewNop())

	e := newEvent(1, constants.StatusRejected)
	e.File = "zayavki/2025/03/01/file.pdf"
	require.NoError(t, l.Handle(context.Background(), e))

	f, err := excelize.OpenFile(filepath.Join(dir, "отказано.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Заявки")
	require.NoError(t, err)
	assert.Equal(t, "zayavki/2025/03/01/file.pdf", rows[1][4])
}
