package events

import (
	"time"

	"zayavka-portal/pkg/constants"
)

const ZayavkaStatusChanged = "zayavka.status.changed"

// ZayavkaStatusChangedEvent публикуется после коммита смены статуса.
// Несёт всё, что нужно слушателям, чтобы не ходить обратно в БД.
type ZayavkaStatusChangedEvent struct {
	ZayavkaID     int
	NewStatus     constants.Status
	Type          string
	Description   string
	File          string
	CreatedAt     time.Time
	OwnerUsername string
	OwnerFaculty  string
}

func (e ZayavkaStatusChangedEvent) Name() string {
	return ZayavkaStatusChanged
}
