package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// ActionLog — строка журнала действий. Записи только добавляются,
// никогда не изменяются и не удаляются.
type ActionLog struct {
	ID        int       `json:"id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int       `json:"user_id"`
	ZayavkaID null.Int  `json:"zayavka_id"`
}
