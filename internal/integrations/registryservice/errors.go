package registryservice

import "errors"

var (
	// ErrHospitalNotFound возвращается, когда госпиталь не найден
	ErrHospitalNotFound = errors.New("hospital not found")

	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("patient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("registryservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("registryservice client: invalid response")
)
