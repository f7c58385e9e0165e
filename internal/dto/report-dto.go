package dto

// ReportRowDTO — одна строка отчёта: заявка, уже соединённая с владельцем
// и с отформатированной датой. Рендеры форматов работают только с ней.
type ReportRowDTO struct {
	Employee    string `json:"employee"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Date        string `json:"date"`
}
