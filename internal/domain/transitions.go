package domain

// Таблица допустимых переходов статусов записи
// Любой переход вне таблицы - ошибка валидации на уровне сервиса
//
// cancelled и rescheduled достижимы только через выделенные операции
// (Cancel и Reschedule), которые дополнительно проверяют собственные условия
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow, StatusRescheduled},
	StatusInProgress: {StatusCompleted, StatusRescheduled},
}

// CanTransition возвращает true, если переход из статуса from в to допустим
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// LiveStatuses статусы записей, занимающих свой временной интервал
var LiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// ConflictStatuses статусы, участвующие в проверке пересечений при бронировании
// Ровно confirmed и pending: завершённые, отменённые и перенесённые записи
// интервал не занимают, in_progress по определению не может пересечься с
// новой записью в будущем
var ConflictStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusPending,
}
