package get_available_slots

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrHospitalNotFound возвращается, когда госпиталь не найден
	ErrHospitalNotFound = errors.New("hospital not found")

	// ErrInvalidTimezone возвращается, когда явно переданная таймзона неизвестна
	// Зона из настроек госпиталя деградирует до UTC молча, явная зона - нет
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
