package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// User — сотрудник или администратор портала.
// Role хранится как NULL, пока пользователь, пришедший через внешний
// провайдер, не выбрал роль; обычная регистрация заполняет её сразу.
// Проверки прав читают роль из контекста запроса, не из сущности.
type User struct {
	ID        int         `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"-"`
	Role      null.String `json:"role"`
	FullName  null.String `json:"full_name"`
	Faculty   null.String `json:"faculty"`
	Position  null.String `json:"position"`
	Photo     null.String `json:"photo"`
	CreatedAt time.Time   `json:"created_at"`
}
