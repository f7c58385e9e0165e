package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"zayavka-portal/pkg/constants"
)

// Zayavka — заявка сотрудника на оборудование или ремонт.
type Zayavka struct {
	ID              int              `json:"id"`
	Type            string           `json:"type"`
	Description     string           `json:"description"`
	Status          constants.Status `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UserID          int              `json:"user_id"`
	File            null.String      `json:"file"`
	Urgent          bool             `json:"urgent"`
	Comment         null.String      `json:"comment"`
	Rating          null.Int         `json:"rating"`
	ConfirmedByUser bool             `json:"confirmed_by_user"`

	// Владелец, подтянутый джойном. Заполняется репозиторием.
	Owner ZayavkaOwner `json:"owner"`
}

type ZayavkaOwner struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	FullName null.String `json:"full_name"`
	Faculty  null.String `json:"faculty"`
}
