package dto

type UserDTO struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Faculty  string `json:"faculty"`
	Position string `json:"position"`
	Photo    string `json:"photo"`
}

type UpdateProfileDTO struct {
	FullName string `json:"full_name" validate:"omitempty,max=150"`
	Faculty  string `json:"faculty" validate:"omitempty,max=150"`
	Position string `json:"position" validate:"omitempty,max=150"`
	Photo    string `json:"-"`
}
