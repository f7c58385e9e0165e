package errors

import "fmt"

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверный логин или пароль")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Регистрация
	ErrEmailTaken    = fmt.Errorf("пользователь с таким email уже существует")
	ErrUsernameTaken = fmt.Errorf("пользователь с таким логином уже существует")
	ErrRoleChosen    = fmt.Errorf("роль уже выбрана и не может быть изменена")
	ErrInvalidRole   = fmt.Errorf("недопустимая роль")

	// Жизненный цикл заявки
	ErrInvalidStatus = fmt.Errorf("недопустимый статус заявки")
	ErrInvalidRating = fmt.Errorf("оценка должна быть от 1 до 5")

	// Экспорт
	ErrExportFailed = fmt.Errorf("не удалось сформировать отчёт")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
