package constants

import (
	"strings"

	apperrors "zayavka-portal/pkg/errors"
)

// Status — закрытый набор статусов заявки. Любая строка извне проходит
// через ParseStatus, дальше по коду ходит только провалидированное значение.
type Status string

const (
	StatusPending  Status = "ожидает"
	StatusAccepted Status = "принято"
	StatusDone     Status = "сделано"
	StatusRejected Status = "отказано"
)

// aliases — исторические и английские написания статусов.
// "отклонено" встречается в старых записях, английские имена — в API-клиентах.
var aliases = map[string]Status{
	"ожидает":   StatusPending,
	"принято":   StatusAccepted,
	"сделано":   StatusDone,
	"отказано":  StatusRejected,
	"отклонено": StatusRejected,
	"pending":   StatusPending,
	"accepted":  StatusAccepted,
	"done":      StatusDone,
	"rejected":  StatusRejected,
}

func ParseStatus(raw string) (Status, error) {
	s, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", apperrors.ErrInvalidStatus
	}
	return s, nil
}

// IsTerminal — финальные статусы, после которых заявка уходит в архив.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusRejected
}

func (s Status) String() string {
	return string(s)
}

// StatusColor — цвет события в календаре. Тотальная функция: на любой
// входной строке возвращает цвет.
func StatusColor(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StatusDone):
		return "green"
	case string(StatusRejected), "отклонено":
		return "red"
	case string(StatusPending):
		return "orange"
	case "неизвестно":
		return "gray"
	default:
		return "lightblue"
	}
}
