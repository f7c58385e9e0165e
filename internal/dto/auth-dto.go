package dto

type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=employee admin"`
	FullName string `json:"full_name" validate:"omitempty,max=150"`
	Faculty  string `json:"faculty" validate:"omitempty,max=150"`
	Position string `json:"position" validate:"omitempty,max=150"`
}

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SelectRoleDTO struct {
	Role string `json:"role" validate:"required,oneof=employee admin"`
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResultDTO struct {
	User   UserDTO      `json:"user"`
	Tokens TokenPairDTO `json:"tokens"`
}

// GoogleUserInfo — то, что мы получаем от провайдера после обмена кода.
type GoogleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
