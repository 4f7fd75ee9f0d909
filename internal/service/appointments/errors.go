package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("patient not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда запись уже нельзя отменить
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrCannotReschedule возвращается, когда запись нельзя перенести
	ErrCannotReschedule = errors.New("appointment cannot be rescheduled")

	// ErrInvalidStatus возвращается при неизвестном или недопустимом статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
