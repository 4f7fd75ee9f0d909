package reminder

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAlreadySent возвращается, когда напоминание уже отправлено
	ErrAlreadySent = errors.New("reminder already sent")

	// ErrNotConfirmed возвращается, когда запись не в статусе confirmed
	ErrNotConfirmed = errors.New("appointment is not confirmed")

	// ErrDispatchFailed возвращается, когда отправка напоминания не удалась
	ErrDispatchFailed = errors.New("reminder dispatch failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reminder: internal error")
)
