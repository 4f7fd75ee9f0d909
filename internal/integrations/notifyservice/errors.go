package notifyservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("notifyservice client: invalid response")

	// ErrDispatchFailed возвращается, когда NotifyService отклонил отправку
	// Таймаут запроса также считается неуспешной отправкой, не фатальной ошибкой
	ErrDispatchFailed = errors.New("notifyservice client: dispatch failed")
)
