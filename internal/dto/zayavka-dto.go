package dto

type CreateZayavkaDTO struct {
	Type        string `json:"type" form:"type" validate:"required,max=50"`
	Description string `json:"description" form:"description" validate:"required"`
	Urgent      bool   `json:"urgent" form:"urgent"`
	File        string `json:"-"`
}

type TransitionStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

type FeedbackDTO struct {
	Comment string `json:"comment" validate:"omitempty"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

// ZayavkaFilterDTO — фильтры админской панели. Пустая строка — фильтр не задан.
type ZayavkaFilterDTO struct {
	Type   string `query:"type"`
	Status string `query:"status"`
	Query  string `query:"query"`
}

type ZayavkaDTO struct {
	ID              int          `json:"id"`
	Type            string       `json:"type"`
	Description     string       `json:"description"`
	Status          string       `json:"status"`
	CreatedAt       string       `json:"created_at"`
	File            string       `json:"file,omitempty"`
	Urgent          bool         `json:"urgent"`
	Comment         string       `json:"comment,omitempty"`
	Rating          int          `json:"rating,omitempty"`
	ConfirmedByUser bool         `json:"confirmed_by_user"`
	Owner           ShortUserDTO `json:"owner"`
}

type ShortUserDTO struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

type CalendarEventDTO struct {
	Title string `json:"title"`
	Start string `json:"start"`
	Color string `json:"color"`
}
