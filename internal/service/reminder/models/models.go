package models

// SweepMode режим запуска рассылки напоминаний
type SweepMode string

const (
	// ModeScheduled плановый запуск по тикеру: госпиталь обрабатывается
	// только в свой локальный час рассылки
	ModeScheduled SweepMode = "scheduled"

	// ModeManual ручной запуск: фильтр локального часа не применяется
	ModeManual SweepMode = "manual"
)

// SweepResult итог одного прохода рассылки
type SweepResult struct {
	Mode      SweepMode `json:"mode"`
	Hospitals int       `json:"hospitals"` // Сколько госпиталей обработано
	Processed int       `json:"processed"` // Сколько записей рассмотрено
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
}

// UpcomingDay сводка предстоящих напоминаний на один день
type UpcomingDay struct {
	Date  string `json:"date"` // "2026-09-07", календарный день UTC
	Count int    `json:"count"`
}

// UpcomingResponse сводка предстоящих напоминаний
type UpcomingResponse struct {
	Days []UpcomingDay `json:"days"`
}
