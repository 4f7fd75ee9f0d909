package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда шаблон расписания не найден
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
