package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultTimezone            = "UTC"
	DefaultReminderLocalHour   = 9
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 240
	MaxCancellationReasonLength = 500
)

// AppointmentNumberPrefix префикс человекочитаемого номера записи
// Формат номера: APT + YYYYMMDD + четырёхзначный порядковый номер за день
const AppointmentNumberPrefix = "APT"

// Time format constants
const (
	TimeFormat       = "15:04"      // HH:MM
	DateFormat       = "2006-01-02" // YYYY-MM-DD
	NumberDateFormat = "20060102"   // YYYYMMDD, для номеров записей
)
