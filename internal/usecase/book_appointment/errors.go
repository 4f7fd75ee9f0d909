package book_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден или неактивен
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("patient not found")

	// ErrHospitalNotFound возвращается, когда госпиталь не найден
	ErrHospitalNotFound = errors.New("hospital not found")

	// ErrInvalidTimezone возвращается, когда явно переданная таймзона неизвестна
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrSlotConflict возвращается, когда интервал записи пересекается
	// с существующей confirmed или pending записью врача
	ErrSlotConflict = errors.New("slot conflicts with existing appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
