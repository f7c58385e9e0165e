package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zayavka-portal/pkg/errors"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"ожидает", StatusPending},
		{"принято", StatusAccepted},
		{"сделано", StatusDone},
		{"отказано", StatusRejected},
		{"отклонено", StatusRejected},
		{"pending", StatusPending},
		{"accepted", StatusAccepted},
		{"done", StatusDone},
		{"rejected", StatusRejected},
		{"  Сделано  ", StatusDone},
		{"DONE", StatusDone},
	}

	for _, tc := range cases {
		got, err := ParseStatus(tc.raw)
		require.NoError(t, err, "статус %q должен распознаваться", tc.raw)
		assert.Equal(t, tc.want, got, "статус %q разобран неверно", tc.raw)
	}
}

func TestParseStatusInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "в работе", "completed", "123"} {
		_, err := ParseStatus(raw)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus, "строка %q не должна распознаваться как статус", raw)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal(), "ожидающая заявка не финальна")
	assert.False(t, StatusAccepted.IsTerminal(), "принятая заявка не финальна")
	assert.True(t, StatusDone.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "green", StatusColor("сделано"))
	assert.Equal(t, "red", StatusColor("отказано"))
	assert.Equal(t, "red", StatusColor("отклонено"), "историческое написание должно давать тот же цвет")
	assert.Equal(t, "orange", StatusColor("ожидает"))
	assert.Equal(t, "gray", StatusColor("неизвестно"))
	assert.Equal(t, "lightblue", StatusColor("что-то странное"), "функция тотальна: неизвестный вход даёт цвет по умолчанию")
	assert.Equal(t, "green", StatusColor("  СДЕЛАНО "), "регистр и пробелы не влияют")
}
